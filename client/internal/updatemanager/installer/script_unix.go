//go:build !windows

package installer

import "strings"

const (
	scriptExt = ".sh"
	// selfDeleteDirective removes the running script
	selfDeleteDirective = `rm -f -- "$0"`
	scriptMode          = 0o755
)

const scriptTemplate = "#!/bin/sh\n" +
	"sleep {{.DelaySeconds}}\n" +
	"{{.Invocation}}\n" +
	"rm -f -- {{.Installer}}\n" +
	selfDeleteDirective + "\n"

// quote wraps p in single quotes for /bin/sh
func quote(p string) string {
	return "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
}

func invocation(installerPath string, _ Type, args []string) string {
	parts := []string{quote(installerPath)}
	for _, a := range args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}
