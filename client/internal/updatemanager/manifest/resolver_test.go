package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPattern = InstallerPattern{Product: "Foo", Extension: ".exe"}

func writeFile(t *testing.T, path string, content string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	if !modTime.IsZero() {
		require.NoError(t, os.Chtimes(path, modTime, modTime))
	}
}

func TestResolve_Manifest(t *testing.T) {
	testMatrix := []struct {
		name              string
		manifest          string
		manifestFile      string
		createInstaller   bool
		currentVersion    string
		expectedAvailable bool
		expectedVersion   string
	}{
		{
			name:              "newer version with installer present",
			manifest:          `{"version": "1.3.0", "installer": "Foo_Setup_v1.3.0.exe", "release_notes": "fixes"}`,
			manifestFile:      JSONFile,
			createInstaller:   true,
			currentVersion:    "1.2.0",
			expectedAvailable: true,
			expectedVersion:   "1.3.0",
		},
		{
			name:              "newer version with installer missing",
			manifest:          `{"version": "1.3.0", "installer": "Foo_Setup_v1.3.0.exe"}`,
			manifestFile:      JSONFile,
			createInstaller:   false,
			currentVersion:    "1.2.0",
			expectedAvailable: false,
		},
		{
			name:              "same version",
			manifest:          `{"version": "1.2", "installer": "Foo_Setup_v1.3.0.exe"}`,
			manifestFile:      JSONFile,
			createInstaller:   true,
			currentVersion:    "1.2.0",
			expectedAvailable: false,
		},
		{
			name:              "malformed manifest version",
			manifest:          `{"version": "next", "installer": "Foo_Setup_v1.3.0.exe"}`,
			manifestFile:      JSONFile,
			createInstaller:   true,
			currentVersion:    "1.2.0",
			expectedAvailable: false,
		},
		{
			name:              "malformed json",
			manifest:          `{"version": "1.3.0",`,
			manifestFile:      JSONFile,
			createInstaller:   true,
			currentVersion:    "1.2.0",
			expectedAvailable: false,
		},
		{
			name:              "installer outside the location",
			manifest:          `{"version": "1.3.0", "installer": "../Foo_Setup_v1.3.0.exe"}`,
			manifestFile:      JSONFile,
			createInstaller:   true,
			currentVersion:    "1.2.0",
			expectedAvailable: false,
		},
		{
			name:              "manifest with byte order mark",
			manifest:          "\xef\xbb\xbf" + `{"version": "1.3.0", "installer": "Foo_Setup_v1.3.0.exe"}`,
			manifestFile:      JSONFile,
			createInstaller:   true,
			currentVersion:    "1.2.0",
			expectedAvailable: true,
			expectedVersion:   "1.3.0",
		},
		{
			name:              "yaml manifest",
			manifest:          "version: \"1.3.0\"\ninstaller: Foo_Setup_v1.3.0.exe\nrelease_notes: fixes\n",
			manifestFile:      YAMLFile,
			createInstaller:   true,
			currentVersion:    "1.2.0",
			expectedAvailable: true,
			expectedVersion:   "1.3.0",
		},
	}

	for _, c := range testMatrix {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, c.manifestFile), c.manifest, time.Time{})
			installer := filepath.Join(dir, "Foo_Setup_v1.3.0.exe")
			if c.createInstaller {
				writeFile(t, installer, "installer", time.Time{})
			}

			res := NewShareResolver(testPattern).Resolve(context.Background(), dir, c.currentVersion)
			assert.Equal(t, c.expectedAvailable, res.Available)
			if !c.expectedAvailable {
				return
			}
			assert.Equal(t, c.expectedVersion, res.Version)
			assert.Equal(t, installer, res.InstallerPath)
			require.NotNil(t, res.Manifest)
		})
	}
}

func TestResolve_ManifestTakesPrecedenceOverInstallerNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, JSONFile), `{"version": "2.0.0", "installer": "Foo_Setup_v2.0.0.exe"}`, time.Time{})
	writeFile(t, filepath.Join(dir, "Foo_Setup_v3.0.0.exe"), "installer", time.Time{})

	res := NewShareResolver(testPattern).Resolve(context.Background(), dir, "1.0.0")
	assert.False(t, res.Available, "a manifest pointing to a missing installer must not fall back to file names")
}

func TestResolve_InstallerNames(t *testing.T) {
	now := time.Now()

	t.Run("newest modification time wins over larger version string", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Foo_Setup_v1.2.0.exe"), "new", now.Add(-time.Hour))
		writeFile(t, filepath.Join(dir, "Foo_Setup_v1.0.0.exe"), "old", now.Add(-2*time.Hour))

		res := NewShareResolver(testPattern).Resolve(context.Background(), dir, "0.9.0")
		require.True(t, res.Available)
		assert.Equal(t, "1.2.0", res.Version)
		assert.Equal(t, filepath.Join(dir, "Foo_Setup_v1.2.0.exe"), res.InstallerPath)
		assert.Nil(t, res.Manifest)
	})

	t.Run("selection is by modification time, not version", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Foo_Setup_v1.2.0.exe"), "older build", now.Add(-2*time.Hour))
		writeFile(t, filepath.Join(dir, "Foo_Setup_v1.0.0.exe"), "newer build", now.Add(-time.Hour))

		res := NewShareResolver(testPattern).Resolve(context.Background(), dir, "0.9.0")
		require.True(t, res.Available)
		assert.Equal(t, "1.0.0", res.Version)
	})

	t.Run("tie broken by largest name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Foo_Setup_v1.1.0.exe"), "a", now)
		writeFile(t, filepath.Join(dir, "Foo_Setup_v1.3.0.exe"), "b", now)

		res := NewShareResolver(testPattern).Resolve(context.Background(), dir, "1.0.0")
		require.True(t, res.Available)
		assert.Equal(t, "1.3.0", res.Version)
	})

	t.Run("latest installer not newer", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Foo_Setup_v1.2.0.exe"), "x", now)

		res := NewShareResolver(testPattern).Resolve(context.Background(), dir, "1.2.0")
		assert.False(t, res.Available)
	})

	t.Run("no matching installers", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Bar_Setup_v9.0.0.exe"), "x", now)
		writeFile(t, filepath.Join(dir, "Foo_Setup_v9.0.0.msi"), "x", now)

		res := NewShareResolver(testPattern).Resolve(context.Background(), dir, "1.0.0")
		assert.False(t, res.Available)
	})

	t.Run("ambiguous version marker", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Foo_Setup_v1.0_v2.exe"), "x", now)

		res := NewShareResolver(testPattern).Resolve(context.Background(), dir, "0.1.0")
		assert.False(t, res.Available)
	})
}

func TestResolve_UnreachableLocationSeverity(t *testing.T) {
	hook := test.NewGlobal()
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetLevel(level)
		hook.Reset()
	})

	resolver := NewShareResolver(testPattern)

	res := resolver.Resolve(context.Background(), "//unreachable-host/updates/foo", "1.0.0")
	assert.False(t, res.Available)
	require.NotNil(t, hook.LastEntry())
	networkLevel := hook.LastEntry().Level
	assert.Equal(t, log.DebugLevel, networkLevel)

	hook.Reset()
	res = resolver.Resolve(context.Background(), filepath.Join(t.TempDir(), "missing"), "1.0.0")
	assert.False(t, res.Available)
	require.NotNil(t, hook.LastEntry())
	localLevel := hook.LastEntry().Level
	assert.Equal(t, log.WarnLevel, localLevel)

	// logrus levels grow with verbosity
	assert.Greater(t, networkLevel, localLevel)
}

func TestResolve_LocationIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "updates")
	writeFile(t, file, "not a dir", time.Time{})

	res := NewShareResolver(testPattern).Resolve(context.Background(), file, "1.0.0")
	assert.False(t, res.Available)
}

func TestVersionFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		expected string
		ok       bool
	}{
		{"semantic", "Input_Scan_Setup_v1.0.0.exe", "1.0.0", true},
		{"legacy date", `\\server\share\Input_Scan_Setup_v2025.10.10.exe`, "2025.10.10", true},
		{"no marker", "Input_Scan_Setup.exe", "", false},
		{"marker twice", "My_viewer_Setup_v1.0.0.exe", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := VersionFromFilename(tc.file)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestIsNetworkPath(t *testing.T) {
	assert.True(t, IsNetworkPath(`\\192.168.1.230\develop\MES`))
	assert.True(t, IsNetworkPath("//server/share"))
	assert.False(t, IsNetworkPath(`C:\updates`))
	assert.False(t, IsNetworkPath("/srv/updates"))
}
