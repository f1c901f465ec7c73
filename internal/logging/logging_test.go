package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jade/jadeos/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "jade.log")
	log, err := New(config.LogConfig{Path: path, Level: "debug"})
	require.NoError(t, err)

	log.Debug("bridge call finished")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "bridge call finished")
	require.Contains(t, string(data), `"level":"debug"`)
}

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jade.log")
	log, err := New(config.LogConfig{Path: path, Level: "chatty"})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "hidden")
	require.Contains(t, string(data), "shown")
}
