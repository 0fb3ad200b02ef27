package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultEndpoint is the GraphQL endpoint used when none is configured.
const DefaultEndpoint = "http://localhost:8000/graphql/"

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// Endpoint is the URL of the GraphQL API. All operations go to this
	// single URL as POST requests.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// RequestTimeoutSec bounds every network call. The server does not
	// enforce one, so the client does.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`

	// Theme is the UI color theme name.
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskboard", "config.yaml")
}

// DefaultLogPath returns the path of the debug log file, next to the
// configuration file. The TUI owns stdout/stderr while running, so logs
// go to a file instead.
func DefaultLogPath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "taskboard.log")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Endpoint:          DefaultEndpoint,
		RequestTimeoutSec: 30,
		Theme:             "default",
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("request_timeout_sec", 30)
	v.SetDefault("theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 30
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("endpoint", cfg.Endpoint)
	v.Set("request_timeout_sec", cfg.RequestTimeoutSec)
	v.Set("theme", cfg.Theme)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
