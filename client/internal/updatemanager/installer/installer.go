package installer

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Installer stages an installer and hands it to a detached launch script.
type Installer struct {
	stager   *Stager
	launcher *Launcher
}

// New used by the host application with the default timings
func New(scratchDir string, silentArgs []string) *Installer {
	return NewWithStager(NewStager(scratchDir, DefaultLaunchDelay, silentArgs), NewLauncher(DefaultGracePeriod))
}

func NewWithStager(stager *Stager, launcher *Launcher) *Installer {
	return &Installer{
		stager:   stager,
		launcher: launcher,
	}
}

// RunInstallation copies installerPath to the scratch directory and starts
// the launch script. Once it returns nil the script runs on its own: the
// caller is expected to exit so the installer can replace its files.
func (u *Installer) RunInstallation(ctx context.Context, installerPath string, silent bool) error {
	staged, err := u.Stage(installerPath, silent)
	if err != nil {
		return err
	}
	return u.Launch(ctx, staged)
}

func (u *Installer) Stage(installerPath string, silent bool) (*StagedInstaller, error) {
	log.Infof("staging update installer from %s", installerPath)

	staged, err := u.stager.Stage(installerPath, silent)
	if err != nil {
		log.Errorf("failed to stage installer: %v", err)
		return nil, err
	}
	return staged, nil
}

// Launch starts the staged script. ctx only bounds the grace wait, the
// script itself cannot be cancelled once spawned.
func (u *Installer) Launch(ctx context.Context, staged *StagedInstaller) error {
	pid, err := u.launcher.Launch(ctx, staged.ScriptPath)
	if err != nil {
		// no script will ever clean these up
		u.stager.cleanUp(staged)
		return err
	}

	log.Infof("update script launched (PID %d), installer will start in %s", pid, u.stager.launchDelay.Round(time.Second))
	return nil
}
