package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Backend  BackendConfig
	LLM      LLMConfig
	Scanner  ScannerConfig
	Video    VideoConfig
	Memory   MemoryConfig
	Events   EventsConfig
	Server   ServerConfig
	Bridge   BridgeConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig controls the file logger. The dashboard owns the terminal, so logs
// never go to stdout while it runs.
type LogConfig struct {
	Path  string
	Level string
}

// BackendConfig points the dashboard at a remote JADE backend. Empty URL means
// local workers are used.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// LLMConfig holds provider settings.
type LLMConfig struct {
	Provider  string
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Model     string
}

// ScannerConfig holds browser settings for the product radar.
type ScannerConfig struct {
	Headless    bool
	BrowserBin  string        `mapstructure:"browser_bin"`
	PageTimeout time.Duration `mapstructure:"page_timeout"`
}

// VideoConfig holds ffmpeg and storage settings.
type VideoConfig struct {
	FFmpeg       string
	UploadDir    string `mapstructure:"upload_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`
}

// MemoryConfig selects the long-term context store.
type MemoryConfig struct {
	Backend  string
	RedisURL string `mapstructure:"redis_url"`
}

// EventsConfig holds the optional NATS publisher settings.
type EventsConfig struct {
	NATSURL string `mapstructure:"nats_url"`
	Subject string
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string
}

// BridgeConfig bounds capability calls. Zero timeout means calls run until the
// capability returns.
type BridgeConfig struct {
	Timeout time.Duration
}

// Load reads configuration from file and env. Env var overrides use prefix JADE_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("JADE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "jade"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JADE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "jade")
	v.SetDefault("database.path", filepath.Join(dataDir, "jade.db"))
	v.SetDefault("log.path", filepath.Join(dataDir, "jade.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.timeout", 2*time.Minute)
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("scanner.headless", true)
	v.SetDefault("scanner.browser_bin", "")
	v.SetDefault("scanner.page_timeout", 45*time.Second)
	v.SetDefault("video.ffmpeg", "ffmpeg")
	v.SetDefault("video.upload_dir", filepath.Join("data", "uploads"))
	v.SetDefault("video.processed_dir", filepath.Join("data", "processed"))
	v.SetDefault("memory.backend", "sqlite")
	v.SetDefault("memory.redis_url", "redis://localhost:6379/0")
	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject", "jade.events")
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("bridge.timeout", time.Duration(0))
}

// Save writes the provided config to disk, creating the config directory if needed.
// The API key is stored in plain text in the config file; prefer env vars or the secrets store.
func Save(cfg Config) error {
	path := os.Getenv("JADE_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "jade", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("backend.url", cfg.Backend.URL)
	v.Set("backend.timeout", cfg.Backend.Timeout.String())
	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.Set("llm.api_key", cfg.LLM.APIKey)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("scanner.headless", cfg.Scanner.Headless)
	v.Set("scanner.browser_bin", cfg.Scanner.BrowserBin)
	v.Set("scanner.page_timeout", cfg.Scanner.PageTimeout.String())
	v.Set("video.ffmpeg", cfg.Video.FFmpeg)
	v.Set("video.upload_dir", cfg.Video.UploadDir)
	v.Set("video.processed_dir", cfg.Video.ProcessedDir)
	v.Set("memory.backend", cfg.Memory.Backend)
	v.Set("memory.redis_url", cfg.Memory.RedisURL)
	v.Set("events.nats_url", cfg.Events.NATSURL)
	v.Set("events.subject", cfg.Events.Subject)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("bridge.timeout", cfg.Bridge.Timeout.String())

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
