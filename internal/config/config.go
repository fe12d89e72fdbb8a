// Package config loads StaticCodeViewer configuration with the
// priority: defaults, then .scv/config.yml, then SCV_* environment
// variables.
package config

import (
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/ingest"
)

// Config represents the complete viewer configuration.
type Config struct {
	Analyze AnalyzeConfig `yaml:"analyze" mapstructure:"analyze"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
}

// AnalyzeConfig controls extraction granularity and ingestion guards.
type AnalyzeConfig struct {
	Depth       int   `yaml:"depth" mapstructure:"depth"`                 // 1=files, 2=+classes, 3=+functions
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size"` // bytes; larger files are dropped
}

// PathsConfig defines which files are ingested.
type PathsConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // extension allow-list
	Ignore     []string `yaml:"ignore" mapstructure:"ignore"`         // glob patterns to skip
}

// ServerConfig configures the visualization API server.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"` // listen address, host:port
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Analyze: AnalyzeConfig{
			Depth:       3,
			MaxFileSize: ingest.DefaultMaxFileSize,
		},
		Paths: PathsConfig{
			Extensions: ingest.DefaultExtensions,
			Ignore:     ingest.DefaultIgnorePatterns,
		},
		Server: ServerConfig{
			Addr: "localhost:7119",
		},
	}
}
