package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inputscan/updater/client/internal/config"
)

func TestSilentInstall(t *testing.T) {
	tests := []struct {
		name        string
		autoInstall bool
		silent      bool
		yes         bool
		expected    bool
	}{
		{"countdown mode keeps silent setting", true, true, false, true},
		{"countdown mode not silent", true, false, false, false},
		{"manual confirmation is interactive", false, true, false, false},
		{"assume yes keeps silent setting", false, true, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prev := assumeYes
			assumeYes = tc.yes
			t.Cleanup(func() { assumeYes = prev })

			cfg := config.Config{AutoInstall: tc.autoInstall, SilentInstall: tc.silent}
			assert.Equal(t, tc.expected, silentInstall(cfg))
		})
	}
}
