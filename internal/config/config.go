// Package config handles application configuration using Viper.
// Precedence: defaults < config file < KITTENCI_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "kittenci"

// Config is the resolved runner configuration.
type Config struct {
	Workers     int           `mapstructure:"workers"`
	StepTimeout time.Duration `mapstructure:"step_timeout"`
	LogDir      string        `mapstructure:"log_dir"`
	Journal     Journal       `mapstructure:"journal"`
	Server      Server        `mapstructure:"server"`
}

// Journal configures the run history journal.
type Journal struct {
	Path   string `mapstructure:"path"`
	KeyDir string `mapstructure:"key_dir"`
}

// Server configures the webhook server.
type Server struct {
	Addr     string `mapstructure:"addr"`
	Pipeline string `mapstructure:"pipeline"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workers:     10,
		StepTimeout: 5 * time.Minute,
		LogDir:      ".kittenci/logs",
		Journal: Journal{
			Path:   ".kittenci/journal.jsonl",
			KeyDir: ".kittenci/keys",
		},
		Server: Server{
			Addr:     ":8080",
			Pipeline: "kittenci.yaml",
		},
	}
}

// Dir returns the kittenci configuration directory, following
// $XDG_CONFIG_HOME with a ~/.config fallback.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName), nil
}

// Load reads configuration from path. An empty path falls back to
// <config-dir>/config.yaml; a missing file is not an error, the defaults
// and environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("step_timeout", defaults.StepTimeout)
	v.SetDefault("log_dir", defaults.LogDir)
	v.SetDefault("journal.path", defaults.Journal.Path)
	v.SetDefault("journal.key_dir", defaults.Journal.KeyDir)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.pipeline", defaults.Server.Pipeline)

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
