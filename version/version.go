package version

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const (
	defaultVersion = "1.0.0"
	versionFile    = "version.txt"
)

// set at build time via -ldflags "-X github.com/inputscan/updater/version.version=..."
var version = ""

// Current returns the running build's version: the one injected at link
// time, else the first readable version.txt, else 1.0.0.
func Current() string {
	if version != "" {
		return version
	}

	if v, ok := FromFiles(candidateFiles()...); ok {
		return v
	}

	log.Warnf("no %s found, using default version %s", versionFile, defaultVersion)
	return defaultVersion
}

// FromFiles returns the trimmed content of the first non-empty file among paths.
func FromFiles(paths ...string) (string, bool) {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Errorf("failed to read %s: %v", p, err)
			}
			continue
		}

		v := normalize(string(data))
		if v == "" {
			log.Debugf("empty version file: %s", p)
			continue
		}

		log.Infof("version read from %s: %s", p, v)
		return v, true
	}
	return "", false
}

func candidateFiles() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, versionFile),
			filepath.Join(dir, "_internal", versionFile),
		)
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, versionFile))
	}
	return paths
}
