package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/inputscan/updater/version"
)

// Resolution is the outcome of looking for a newer build on a distribution location.
type Resolution struct {
	Available     bool
	Version       string
	InstallerPath string
	ReleaseNotes  string
	// Manifest is set when the result came from a manifest file
	Manifest *Manifest
}

// Resolver finds the latest build available on a location. Implementations
// never return errors: anything unexpected resolves to "not available".
type Resolver interface {
	Resolve(ctx context.Context, location, currentVersion string) Resolution
}

// ShareResolver reads a manifest from the location and, when none is
// published, infers the latest installer from file names.
type ShareResolver struct {
	pattern InstallerPattern
}

func NewShareResolver(pattern InstallerPattern) *ShareResolver {
	return &ShareResolver{pattern: pattern}
}

func (r *ShareResolver) Resolve(ctx context.Context, location, currentVersion string) Resolution {
	res, err := r.resolve(ctx, location, currentVersion)
	if err != nil {
		log.Errorf("error checking for updates: %v", err)
		return Resolution{}
	}
	return res
}

func (r *ShareResolver) resolve(ctx context.Context, location, currentVersion string) (Resolution, error) {
	if err := checkLocation(location); err != nil {
		// expected when working off the corporate network
		if IsNetworkPath(location) {
			log.Debugf("auto-update disabled, network location not reachable: %v", err)
		} else {
			log.Warnf("update location not accessible: %v", err)
		}
		return Resolution{}, nil
	}

	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}

	manifestPath, found, err := Find(location)
	if err != nil {
		return Resolution{}, fmt.Errorf("look up manifest: %w", err)
	}
	if found {
		return r.fromManifest(location, manifestPath, currentVersion)
	}

	return r.fromInstallerNames(location, currentVersion)
}

func (r *ShareResolver) fromManifest(location, manifestPath, currentVersion string) (Resolution, error) {
	m, err := Read(manifestPath)
	if err != nil {
		return Resolution{}, err
	}

	log.Infof("current version: %s, available version: %s", currentVersion, m.Version)
	if !version.IsNewer(m.Version, currentVersion) {
		log.Infof("application is up to date")
		return Resolution{}, nil
	}

	installerPath := filepath.Join(location, m.Installer)
	info, err := os.Stat(installerPath)
	if err != nil || info.IsDir() {
		// the manifest wins once present, no fallback to file names
		log.Warnf("installer not found: %s", installerPath)
		return Resolution{}, nil
	}

	if minimum, ok := m.Minimum(); ok {
		log.Debugf("manifest minimum version: %s", minimum)
	}

	log.Infof("new version available: %s", m.Version)
	return Resolution{
		Available:     true,
		Version:       m.Version,
		InstallerPath: installerPath,
		ReleaseNotes:  m.ReleaseNotes,
		Manifest:      m,
	}, nil
}

func (r *ShareResolver) fromInstallerNames(location, currentVersion string) (Resolution, error) {
	latest, found, err := r.pattern.Latest(location)
	if err != nil {
		return Resolution{}, fmt.Errorf("list installers: %w", err)
	}
	if !found {
		log.Infof("no updates found matching %s", r.pattern.Glob())
		return Resolution{}, nil
	}

	available, ok := VersionFromFilename(latest)
	if !ok {
		log.Warnf("skipping update, ambiguous installer name: %s", filepath.Base(latest))
		return Resolution{}, nil
	}

	if !version.IsNewer(available, currentVersion) {
		log.Infof("application is up to date")
		return Resolution{}, nil
	}

	log.Infof("new version available: %s", available)
	return Resolution{
		Available:     true,
		Version:       available,
		InstallerPath: latest,
	}, nil
}

// IsNetworkPath reports whether p is a UNC share path.
func IsNetworkPath(p string) bool {
	return strings.HasPrefix(p, `\\`) || strings.HasPrefix(p, "//")
}

func checkLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("%w: no location configured", ErrUnreachable)
	}
	info, err := os.Stat(location)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUnreachable, location)
	}
	return nil
}
