package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("JADE_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "jade", "jade.db"), cfg.Database.Path)
	require.Equal(t, "gemini", cfg.LLM.Provider)
	require.Equal(t, "GEMINI_API_KEY", cfg.LLM.APIKeyEnv)
	require.True(t, cfg.Scanner.Headless)
	require.Equal(t, 45*time.Second, cfg.Scanner.PageTimeout)
	require.Equal(t, "sqlite", cfg.Memory.Backend)
	require.Equal(t, ":5000", cfg.Server.Addr)
	require.Zero(t, cfg.Bridge.Timeout)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[llm]
provider = "openai"
api_key_env = "OPENAI_API_KEY"

[bridge]
timeout = "30s"

[memory]
backend = "redis"
`), 0o600))
	t.Setenv("JADE_CONFIG", path)
	t.Setenv("JADE_SERVER_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.LLM.Provider)
	require.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
	require.Equal(t, 30*time.Second, cfg.Bridge.Timeout)
	require.Equal(t, "redis", cfg.Memory.Backend)
	require.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm\nprovider="), 0o600))
	t.Setenv("JADE_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("JADE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.LLM.Provider = "offline"
	cfg.Video.FFmpeg = "/usr/local/bin/ffmpeg"
	cfg.Bridge.Timeout = 90 * time.Second
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "offline", got.LLM.Provider)
	require.Equal(t, "/usr/local/bin/ffmpeg", got.Video.FFmpeg)
	require.Equal(t, 90*time.Second, got.Bridge.Timeout)
}
