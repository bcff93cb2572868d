//go:build !windows

package shareauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMountCommandGio(t *testing.T) {
	name, args, stdin := mountCommand(`\\server\updates`, Credentials{User: `PLANT\scanner`, Password: "secret"})

	assert.Equal(t, "gio", name)
	assert.Equal(t, []string{"mount", "smb://server/updates/"}, args)
	assert.Equal(t, "scanner\nPLANT\nsecret\n", stdin)
	for _, arg := range args {
		assert.NotContains(t, arg, "secret")
	}
}
