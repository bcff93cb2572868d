//go:build !windows

package shareauth

import (
	"fmt"
	"strings"
)

// mountCommand mounts the share through GVfs. gio prompts for user, domain
// and password on stdin, which keeps the password out of the process list.
func mountCommand(root string, creds Credentials) (string, []string, string) {
	host, share := hostAndShare(root)

	user, domain := creds.User, ""
	if i := strings.Index(user, `\`); i > 0 {
		domain, user = user[:i], user[i+1:]
	}

	stdin := fmt.Sprintf("%s\n%s\n%s\n", user, domain, creds.Password)
	return "gio", []string{"mount", fmt.Sprintf("smb://%s/%s/", host, share)}, stdin
}
