package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables.
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (SCV_*)
// 2. Config file (.scv/config.yml or .scv/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".scv")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("SCV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("analyze.depth")
	v.BindEnv("analyze.max_file_size")
	v.BindEnv("server.addr")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults + env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers default values with viper so that partial
// config files do not zero out the rest.
func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("analyze.depth", defaults.Analyze.Depth)
	v.SetDefault("analyze.max_file_size", defaults.Analyze.MaxFileSize)
	v.SetDefault("paths.extensions", defaults.Paths.Extensions)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)
	v.SetDefault("server.addr", defaults.Server.Addr)
}

// Validate checks the loaded configuration for unusable values.
func (c *Config) Validate() error {
	if c.Analyze.MaxFileSize <= 0 {
		return fmt.Errorf("analyze.max_file_size must be positive, got %d", c.Analyze.MaxFileSize)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	return nil
}
