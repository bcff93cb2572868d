package util

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestInitLog(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	defer log.SetLevel(log.InfoLevel)

	assert.Error(t, InitLog("loud", LogConsole))

	require.NoError(t, InitLog("debug", LogConsole))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	logFile := filepath.Join(t.TempDir(), "updater.log")
	require.NoError(t, InitLog("info", logFile))
	log.Info("written to file")

	lj, ok := log.StandardLogger().Out.(*lumberjack.Logger)
	require.True(t, ok)
	require.NoError(t, lj.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
