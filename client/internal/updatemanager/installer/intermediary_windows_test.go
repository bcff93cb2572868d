package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntermediaryCommand(t *testing.T) {
	name, args := intermediaryCommand(`C:\Users\o'neil\AppData\Local\Temp\Foo_update.bat`)
	assert.Equal(t, "powershell", name)
	require.Len(t, args, 8)
	assert.Equal(t, "-Command", args[6])
	assert.Contains(t, args[7], `Start-Process -FilePath cmd.exe -ArgumentList '/c','"C:\Users\o''neil\AppData\Local\Temp\Foo_update.bat"' -WindowStyle Hidden`)
	assert.Contains(t, args, "-NonInteractive")
}
