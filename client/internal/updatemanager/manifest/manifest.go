package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inputscan/updater/util"
	"github.com/inputscan/updater/version"
)

const (
	// JSONFile is the manifest name looked up first on a distribution location
	JSONFile = "update_info.json"
	// YAMLFile is consulted only when JSONFile is absent
	YAMLFile = "update_info.yaml"

	ReleaseDateLayout     = "2006-01-02 15:04:05"
	DefaultMinimumVersion = "1.0.0"
)

var (
	ErrUnreachable = errors.New("distribution location unreachable")
	ErrManifest    = errors.New("malformed manifest")
)

var utf8BOM = []byte("\xef\xbb\xbf")

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported manifest format %q", s)
	}
}

func (f Format) fileName() string {
	if f == FormatYAML {
		return YAMLFile
	}
	return JSONFile
}

// Manifest describes the build published on a distribution location.
type Manifest struct {
	Version        string `json:"version" yaml:"version"`
	Installer      string `json:"installer" yaml:"installer"`
	ReleaseNotes   string `json:"release_notes" yaml:"release_notes"`
	ReleaseDate    string `json:"release_date" yaml:"release_date"`
	MinimumVersion string `json:"minimum_version" yaml:"minimum_version"`
}

// New builds a manifest stamped with the given release time.
func New(ver, installer, releaseNotes string, releasedAt time.Time) Manifest {
	return Manifest{
		Version:        strings.TrimSpace(ver),
		Installer:      installer,
		ReleaseNotes:   releaseNotes,
		ReleaseDate:    releasedAt.Format(ReleaseDateLayout),
		MinimumVersion: DefaultMinimumVersion,
	}
}

// ReleasedAt parses release_date. Distributors have written it by hand, so a
// bad value is reported as absent rather than invalidating the manifest.
func (m Manifest) ReleasedAt() (time.Time, bool) {
	if strings.TrimSpace(m.ReleaseDate) == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ReleaseDateLayout, strings.TrimSpace(m.ReleaseDate), time.Local)
	if err != nil {
		log.Debugf("ignoring release_date %q: %v", m.ReleaseDate, err)
		return time.Time{}, false
	}
	return t, true
}

// Minimum returns minimum_version when present and well formed.
func (m Manifest) Minimum() (version.Version, bool) {
	if strings.TrimSpace(m.MinimumVersion) == "" {
		return version.Version{}, false
	}
	v, err := version.Parse(m.MinimumVersion)
	if err != nil {
		log.Debugf("ignoring minimum_version %q: %v", m.MinimumVersion, err)
		return version.Version{}, false
	}
	return v, true
}

func (m Manifest) validate() error {
	if strings.TrimSpace(m.Installer) == "" {
		return fmt.Errorf("%w: installer is empty", ErrManifest)
	}
	if filepath.Base(m.Installer) != m.Installer || strings.ContainsAny(m.Installer, `/\`) {
		return fmt.Errorf("%w: installer %q must be a file name", ErrManifest, m.Installer)
	}
	return nil
}

// Find returns the manifest file present in dir, if any.
func Find(dir string) (string, bool, error) {
	for _, name := range []string{JSONFile, YAMLFile} {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", false, err
		}
		if info.IsDir() {
			continue
		}
		return p, true, nil
	}
	return "", false, nil
}

// Read loads and validates a manifest. The format follows the file extension.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var m Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifest, filepath.Base(path), err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Write publishes m into dir and returns the written path. The file is
// written under a temporary name and renamed so readers never see a partial manifest.
func Write(dir string, m Manifest, format Format) (string, error) {
	if err := m.validate(); err != nil {
		return "", err
	}
	if _, err := version.Parse(m.Version); err != nil {
		return "", fmt.Errorf("%w: %v", ErrManifest, err)
	}

	var (
		data []byte
		err  error
	)
	if format == FormatYAML {
		data, err = yaml.Marshal(m)
	} else {
		data, err = marshalJSON(m)
	}
	if err != nil {
		return "", err
	}

	target := filepath.Join(dir, format.fileName())
	if err := util.WriteBytesAtomic(target, data, 0o644); err != nil {
		return "", fmt.Errorf("publish manifest: %w", err)
	}

	log.Infof("update manifest written: %s", target)
	return target, nil
}

// marshalJSON keeps non-ASCII release notes readable on the share
func marshalJSON(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
