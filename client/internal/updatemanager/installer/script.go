package installer

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

const scriptSuffix = "_update"

type scriptData struct {
	DelaySeconds int
	Installer    string
	Invocation   string
}

var launchScript = template.Must(template.New("launch").Parse(scriptTemplate))

// scriptPathFor names the launch script after the installer so that
// concurrent or leftover runs of different builds never collide.
func scriptPathFor(dir, installerPath string) string {
	base := filepath.Base(installerPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+scriptSuffix+scriptExt)
}

// renderScript produces a script that waits for the caller to exit, runs the
// staged installer, removes it and finally removes itself.
func renderScript(installerPath string, it Type, args []string, delay time.Duration) ([]byte, error) {
	seconds := int(math.Ceil(delay.Seconds()))
	if seconds < 1 {
		seconds = 1
	}

	data := scriptData{
		DelaySeconds: seconds,
		Installer:    quote(installerPath),
		Invocation:   invocation(installerPath, it, args),
	}

	var buf bytes.Buffer
	if err := launchScript.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render launch script: %w", err)
	}
	return buf.Bytes(), nil
}
