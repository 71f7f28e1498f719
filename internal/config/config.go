package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all notebook helper configuration.
type Config struct {
	Jupyter JupyterConfig
	Kernel  KernelConfig
	HTTP    HTTPConfig
	Save    SaveConfig
	Logging LogConfig
}

// JupyterConfig locates running notebook servers.
type JupyterConfig struct {
	RuntimeDir string `envconfig:"JUPYTER_RUNTIME_DIR"`
	DataDir    string `envconfig:"JUPYTER_DATA_DIR"`
	// Token is used for servers whose runtime file carries none.
	Token string `envconfig:"JUPYTER_TOKEN"`
}

// KernelConfig identifies the local kernel.
type KernelConfig struct {
	ConnectionFile string `envconfig:"NB_CONNECTION_FILE"`
}

// HTTPConfig holds session-listing client settings.
type HTTPConfig struct {
	Timeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	UserAgent string        `envconfig:"HTTP_USER_AGENT" default:"nbtools/1.0"`
}

// SaveConfig tunes the wait between triggering a save and exporting.
type SaveConfig struct {
	GracePeriod  time.Duration `envconfig:"SAVE_GRACE_PERIOD" default:"3s"`
	PollInterval time.Duration `envconfig:"SAVE_POLL_INTERVAL" default:"250ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "nbtools/1.0",
		},
		Save: SaveConfig{
			GracePeriod:  3 * time.Second,
			PollInterval: 250 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
