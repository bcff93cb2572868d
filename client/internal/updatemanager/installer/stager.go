package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	nberrors "github.com/inputscan/updater/client/errors"
	"github.com/inputscan/updater/util"
)

const (
	// DefaultLaunchDelay gives the application time to exit and release its files
	DefaultLaunchDelay = 2 * time.Second
	bytesPerMB         = 1024 * 1024
)

// StagedInstaller is the set of files produced for one update run. The launch
// script deletes LocalPath and itself once the installer has finished.
type StagedInstaller struct {
	SourcePath string
	LocalPath  string
	ScriptPath string
}

// Stager copies an installer to a scratch directory and writes the script
// that runs it after the application has exited.
type Stager struct {
	scratchDir  string
	appDir      string
	launchDelay time.Duration
	silentArgs  []string
}

func NewStager(scratchDir string, launchDelay time.Duration, silentArgs []string) *Stager {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	if launchDelay <= 0 {
		launchDelay = DefaultLaunchDelay
	}

	s := &Stager{
		scratchDir:  scratchDir,
		launchDelay: launchDelay,
		silentArgs:  silentArgs,
	}
	if dir, err := getAppDir(); err == nil {
		s.appDir = dir
	}
	return s
}

func (s *Stager) ScratchDir() string {
	return s.scratchDir
}

// Stage copies sourcePath into the scratch directory and writes the launch
// script next to it. On failure nothing staged is left behind.
func (s *Stager) Stage(sourcePath string, silent bool) (_ *StagedInstaller, err error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: installer not readable: %v", ErrStage, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: installer %s is a directory", ErrStage, sourcePath)
	}
	log.Infof("installer size: %.2f MB", float64(info.Size())/bytesPerMB)

	if err := s.checkScratchDir(); err != nil {
		return nil, err
	}

	staged := &StagedInstaller{
		SourcePath: sourcePath,
		LocalPath:  filepath.Join(s.scratchDir, filepath.Base(sourcePath)),
	}
	staged.ScriptPath = scriptPathFor(s.scratchDir, staged.LocalPath)

	if samePath(sourcePath, staged.LocalPath) {
		return nil, fmt.Errorf("%w: installer %s is already in the scratch directory", ErrStage, sourcePath)
	}

	defer func() {
		if err != nil {
			s.cleanUp(staged)
		}
	}()

	log.Infof("copying %s to %s", sourcePath, staged.LocalPath)
	if err := util.CopyFileContents(sourcePath, staged.LocalPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStage, err)
	}
	if err := os.Chmod(staged.LocalPath, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to set permissions: %v", ErrStage, err)
	}
	if copied, err := os.Stat(staged.LocalPath); err == nil {
		log.Infof("installer copied to %s (%.2f MB)", staged.LocalPath, float64(copied.Size())/bytesPerMB)
	}

	it := TypeByFileExtension(staged.LocalPath)
	var args []string
	if silent {
		args = it.SilentArgs()
		if len(s.silentArgs) > 0 {
			args = s.silentArgs
		}
	}

	script, err := renderScript(staged.LocalPath, it, args, s.launchDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStage, err)
	}

	log.Infof("writing update script: %s", staged.ScriptPath)
	// never leave a half-written script behind
	if err := util.WriteBytesAtomic(staged.ScriptPath, script, scriptMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStage, err)
	}

	return staged, nil
}

// checkScratchDir refuses a scratch directory inside the application's own
// tree: the script deletes itself while the installer rewrites that tree.
func (s *Stager) checkScratchDir() error {
	if s.appDir != "" && isWithin(s.appDir, s.scratchDir) {
		return fmt.Errorf("%w: scratch directory %s is inside the application directory %s", ErrStage, s.scratchDir, s.appDir)
	}
	if err := os.MkdirAll(s.scratchDir, 0o755); err != nil {
		log.Debugf("failed to create scratch dir: %s", s.scratchDir)
		return fmt.Errorf("%w: %v", ErrStage, err)
	}
	return nil
}

func (s *Stager) cleanUp(staged *StagedInstaller) {
	var merr *multierror.Error
	for _, p := range []string{staged.LocalPath, staged.ScriptPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			merr = multierror.Append(merr, fmt.Errorf("failed to remove %s: %w", p, err))
		}
	}
	if err := nberrors.FormatErrorOrNil(merr); err != nil {
		log.Warnf("failed to clean up staged files: %v", err)
	}
}

func getAppDir() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exePath), nil
}

func isWithin(parent, child string) bool {
	p, err := filepath.Abs(parent)
	if err != nil {
		return false
	}
	c, err := filepath.Abs(child)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(p, c)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func samePath(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
