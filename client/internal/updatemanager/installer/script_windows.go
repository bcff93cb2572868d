package installer

import "strings"

const (
	scriptExt = ".bat"
	// selfDeleteDirective removes the running batch file
	selfDeleteDirective = `del "%~f0"`
	scriptMode          = 0o644
)

const scriptTemplate = "@echo off\r\n" +
	"timeout /t {{.DelaySeconds}} /nobreak >nul\r\n" +
	"{{.Invocation}}\r\n" +
	"if exist {{.Installer}} del /f /q {{.Installer}}\r\n" +
	selfDeleteDirective + "\r\n"

// quote wraps p for cmd.exe. Windows paths cannot contain double quotes.
func quote(p string) string {
	return `"` + p + `"`
}

func invocation(installerPath string, it Type, args []string) string {
	parts := []string{quote(installerPath)}
	if it.name == TypeMSI.name {
		parts = []string{"msiexec", "/i", quote(installerPath)}
	}
	parts = append(parts, args...)
	return strings.Join(parts, " ")
}
