package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const versionMarker = "_v"

// InstallerPattern matches installers published as <product>_Setup_v<version><ext>.
type InstallerPattern struct {
	Product   string
	Extension string
}

// Glob returns the shell pattern installers are matched against.
func (p InstallerPattern) Glob() string {
	return p.Product + "_Setup" + versionMarker + "*" + p.Extension
}

type candidate struct {
	name    string
	modTime time.Time
}

// Latest returns the matching installer with the newest modification time.
// Ties go to the lexicographically largest name.
func (p InstallerPattern) Latest(dir string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, err
	}

	glob := p.Glob()
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matched, err := filepath.Match(glob, entry.Name())
		if err != nil {
			return "", false, fmt.Errorf("invalid installer pattern %q: %w", glob, err)
		}
		if !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// removed between listing and stat
			log.Debugf("skipping installer %s: %v", entry.Name(), err)
			continue
		}
		candidates = append(candidates, candidate{name: entry.Name(), modTime: info.ModTime()})
	}

	if len(candidates) == 0 {
		return "", false, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].modTime.Equal(candidates[j].modTime) {
			return candidates[i].modTime.After(candidates[j].modTime)
		}
		return candidates[i].name > candidates[j].name
	})

	return filepath.Join(dir, candidates[0].name), true, nil
}

// VersionFromFilename extracts the version token after the "_v" marker of the
// file stem. Names containing the marker more than once are ambiguous.
func VersionFromFilename(name string) (string, bool) {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(stem, versionMarker)
	if len(parts) != 2 {
		return "", false
	}
	return parts[1], true
}
