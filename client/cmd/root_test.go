package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inputscan/updater/client/internal/updatemanager/manifest"
)

func TestInitCommands(t *testing.T) {
	helpFlag := "-h"
	commandArgs := [][]string{{"root", helpFlag}}
	for _, command := range rootCmd.Commands() {
		commandArgs = append(commandArgs, []string{command.Name(), command.Name(), helpFlag})
	}

	for _, args := range commandArgs {
		t.Run(fmt.Sprintf("Testing Command %s", args[0]), func(t *testing.T) {
			defer func() {
				err := recover()
				if err != nil {
					t.Fatalf("got an panic error while running the command: %s -h. Error: %s", args[0], err)
				}
			}()

			rootCmd.SetArgs(args[1:])
			rootCmd.SetOut(io.Discard)
			if err := rootCmd.Execute(); err != nil {
				t.Errorf("expected no error while running %s command, got %v", args[0], err)
				return
			}
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommandState(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetCommandState clears -h and the output writers left set by earlier
// executions of the shared commands
func resetCommandState(c *cobra.Command) {
	if f := c.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	c.SetOut(nil)
	c.SetErr(nil)
	for _, sub := range c.Commands() {
		resetCommandState(sub)
	}
}

func TestPublishThenCheck(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Foo_Setup_v1.3.0.exe"), []byte("x"), 0o644))

	out, err := execute(t, "publish",
		"--dir", dir,
		"--version", "1.3.0",
		"--installer", "Foo_Setup_v1.3.0.exe",
		"--notes", "faster scans",
	)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, manifest.JSONFile))

	out, err = execute(t, "check",
		"--distribution-path", dir,
		"--product", "Foo",
		"--current-version", "1.2.0",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "update available: 1.3.0")
	assert.Contains(t, out, filepath.Join(dir, "Foo_Setup_v1.3.0.exe"))

	out, err = execute(t, "check",
		"--distribution-path", dir,
		"--product", "Foo",
		"--current-version", "1.3.0",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestPublishRejectsInvalidVersion(t *testing.T) {
	_, err := execute(t, "publish",
		"--dir", t.TempDir(),
		"--version", "1.x",
		"--installer", "Foo_Setup_v1.x.exe",
	)
	assert.Error(t, err)
}

func TestInstallMissingInstaller(t *testing.T) {
	_, err := execute(t, "install", filepath.Join(t.TempDir(), "missing.exe"), "--scratch-dir", t.TempDir())
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRepeatedExecutionCapturesOutput(t *testing.T) {
	for i := 0; i < 2; i++ {
		out, err := execute(t, "version")
		require.NoError(t, err)
		assert.NotEmptyf(t, out, "execution %d wrote no output", i)
	}
}
