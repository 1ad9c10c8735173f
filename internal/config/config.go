// Package config handles configuration loading for the asset tools.
package config

import (
	"fmt"
)

// Source type names accepted in the assets.source setting.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Config holds all settings for the asset tools.
type Config struct {
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// AssetsConfig selects and configures the asset source. The source is chosen once at startup.
type AssetsConfig struct {
	Source          string `yaml:"source"`           // "local" or "remote"
	Root            string `yaml:"root"`             // resource root directory for the local source
	Origin          string `yaml:"origin"`           // deployment origin for the remote source
	PathSegment     string `yaml:"path_segment"`     // fixed path appended to the origin
	MaterialWorkers int    `yaml:"material_workers"` // parallel texture fetches per model, <= 1 is sequential
	Cache           bool   `yaml:"cache"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ServerConfig holds settings for the development asset server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Assets: AssetsConfig{
			Source:          SourceLocal,
			Root:            "res",
			PathSegment:     "learn-wgpu",
			MaterialWorkers: 1,
			Cache:           false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Validate checks that the selected asset source has what it needs.
func (c *Config) Validate() error {
	switch c.Assets.Source {
	case SourceLocal:
		if c.Assets.Root == "" {
			return fmt.Errorf("assets.root is required for the %s source", SourceLocal)
		}
	case SourceRemote:
		if c.Assets.Origin == "" {
			return fmt.Errorf("assets.origin is required for the %s source", SourceRemote)
		}
	default:
		return fmt.Errorf("unknown assets.source %q", c.Assets.Source)
	}
	if c.Assets.MaterialWorkers < 0 {
		return fmt.Errorf("assets.material_workers must not be negative")
	}
	return nil
}
