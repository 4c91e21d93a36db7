// Package config loads the server configuration from a YAML file, applying
// defaults for anything the file leaves out.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the serve-mode settings. The core pipeline needs none of
// this; only the HTTP surface is configurable.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the HTTP upload surface.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`
	// StaticDir serves the upload UI when set; empty disables it.
	StaticDir string `yaml:"static_dir"`
	// MaxUploadMB bounds the total multipart body size.
	MaxUploadMB int `yaml:"max_upload_mb"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 64,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxUploadMB <= 0 {
		cfg.Server.MaxUploadMB = 64
	}
	return cfg, nil
}
