//go:build !windows

package installer

// intermediaryCommand backgrounds the script from a short-lived shell. The
// shell exits at once and the script is reparented to init.
func intermediaryCommand(scriptPath string) (string, []string) {
	return "/bin/sh", []string{"-c", "nohup /bin/sh " + quote(scriptPath) + " >/dev/null 2>&1 &"}
}
