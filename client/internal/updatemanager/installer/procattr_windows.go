package installer

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// setDetachedProcAttr starts the launcher in its own process group without a
// console window, so it outlives the application and shows nothing to the user.
func setDetachedProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.CREATE_NO_WINDOW,
	}
}
