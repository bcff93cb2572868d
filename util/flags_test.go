package util

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFlagsFromEnvVars(t *testing.T) {
	cmd := &cobra.Command{Use: "updater"}
	cmd.PersistentFlags().String("log-level", "info", "")
	cmd.PersistentFlags().String("config", "", "")
	require.NoError(t, cmd.PersistentFlags().Set("config", "/etc/updater.yaml"))

	t.Setenv("UPDATER_LOG_LEVEL", "debug")
	t.Setenv("UPDATER_CONFIG", "/from/env.yaml")

	SetFlagsFromEnvVars(cmd)

	level, err := cmd.PersistentFlags().GetString("log-level")
	require.NoError(t, err)
	assert.Equal(t, "debug", level)

	config, err := cmd.PersistentFlags().GetString("config")
	require.NoError(t, err)
	assert.Equal(t, "/etc/updater.yaml", config, "explicit flags win over the environment")
}

func TestFlagNameToUpper(t *testing.T) {
	assert.Equal(t, "DISTRIBUTION_PATH", flagNameToUpper("distribution-path"))
}

func TestSetFlagsFromEnvVarsSkip(t *testing.T) {
	cmd := &cobra.Command{Use: "updater"}
	cmd.PersistentFlags().String("config", "", "")
	cmd.PersistentFlags().String("product", "Input_Scan", "")

	t.Setenv("UPDATER_CONFIG", "/from/env.yaml")
	t.Setenv("UPDATER_PRODUCT", "Bar")

	SetFlagsFromEnvVars(cmd, "product")

	product := cmd.PersistentFlags().Lookup("product")
	assert.Equal(t, "Input_Scan", product.Value.String())
	assert.False(t, product.Changed)

	config, err := cmd.PersistentFlags().GetString("config")
	require.NoError(t, err)
	assert.Equal(t, "/from/env.yaml", config)
}
