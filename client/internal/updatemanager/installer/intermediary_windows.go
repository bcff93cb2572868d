package installer

import (
	"fmt"
	"strings"
)

// intermediaryCommand starts the batch script from a hidden PowerShell, which
// in turn starts a hidden cmd.exe. The batch file ends up parented to neither
// the application nor its console.
func intermediaryCommand(scriptPath string) (string, []string) {
	script := strings.ReplaceAll(scriptPath, "'", "''")
	command := fmt.Sprintf(
		`Start-Sleep -Seconds 1; Start-Process -FilePath cmd.exe -ArgumentList '/c','"%s"' -WindowStyle Hidden`,
		script,
	)
	return "powershell", []string{
		"-NoProfile",
		"-NonInteractive",
		"-ExecutionPolicy", "Bypass",
		"-WindowStyle", "Hidden",
		"-Command", command,
	}
}
