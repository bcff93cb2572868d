package installer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultGracePeriod is how long Launch waits after a successful spawn before
// handing control back, so the launcher is running before the host exits.
const DefaultGracePeriod = 500 * time.Millisecond

// Spawner starts a process that must outlive the caller and returns its PID.
type Spawner interface {
	Spawn(name string, args ...string) (int, error)
}

type execSpawner struct{}

func (execSpawner) Spawn(name string, args ...string) (int, error) {
	// not bound to a context: the process must survive the application
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	setDetachedProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid
	// Release the process so the OS can fully detach it
	if err := cmd.Process.Release(); err != nil {
		log.Warnf("failed to release launcher process: %v", err)
	}
	return pid, nil
}

// Launcher runs a staged launch script through an intermediary process so the
// script is independent of the application and of the launcher itself.
type Launcher struct {
	spawner     Spawner
	gracePeriod time.Duration
}

func NewLauncher(gracePeriod time.Duration) *Launcher {
	return NewLauncherWithSpawner(execSpawner{}, gracePeriod)
}

func NewLauncherWithSpawner(spawner Spawner, gracePeriod time.Duration) *Launcher {
	if gracePeriod < 0 {
		gracePeriod = 0
	}
	return &Launcher{
		spawner:     spawner,
		gracePeriod: gracePeriod,
	}
}

// Launch is fire-and-forget: the script's outcome is never observed.
// Cancelling ctx only shortens the grace wait, the spawned process keeps running.
func (l *Launcher) Launch(ctx context.Context, scriptPath string) (int, error) {
	name, args := intermediaryCommand(scriptPath)
	log.Infof("starting update launcher: %s %s", name, strings.Join(args, " "))

	pid, err := l.spawner.Spawn(name, args...)
	if err != nil {
		log.Errorf("error starting update launcher: %v", err)
		return 0, fmt.Errorf("%w: %v", ErrLaunch, err)
	}
	log.Infof("update launcher started with PID %d", pid)

	if err := sleepWithContext(ctx, l.gracePeriod); err != nil {
		log.Debugf("grace period interrupted: %v", err)
	}
	return pid, nil
}

func sleepWithContext(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	select {
	case <-time.After(duration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
