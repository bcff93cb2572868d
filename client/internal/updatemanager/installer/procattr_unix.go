//go:build !windows

package installer

import (
	"os/exec"
	"syscall"
)

// setDetachedProcAttr configures the launcher to run in a new session,
// making it independent of the application's process group and terminal.
func setDetachedProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
