package installer

import (
	"path/filepath"
	"strings"
)

// Type describes how a staged installer is invoked from the launch script.
type Type struct {
	name       string
	silentArgs []string
}

var (
	TypeExe    = Type{name: "EXE", silentArgs: []string{"/S"}}
	TypeMSI    = Type{name: "MSI", silentArgs: []string{"/quiet", "/norestart"}}
	TypeBinary = Type{name: "binary", silentArgs: []string{"--silent"}}
)

func (t Type) String() string {
	return t.name
}

// SilentArgs returns the unattended-install flags of the type.
func (t Type) SilentArgs() []string {
	return append([]string(nil), t.silentArgs...)
}

// TypeByFileExtension picks the installer type from the file name.
func TypeByFileExtension(filePath string) Type {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".exe":
		return TypeExe
	case ".msi":
		return TypeMSI
	default:
		return TypeBinary
	}
}
