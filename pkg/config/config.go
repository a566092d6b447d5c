// Package config loads server configuration from an optional YAML file
// with environment fallbacks for secrets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all server settings. Zero values fall back to the defaults
// from Default().
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Translation struct {
		Engine          string `yaml:"engine"`
		BaseURL         string `yaml:"base_url"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		MaxSegmentBytes int    `yaml:"max_segment_bytes"`
	} `yaml:"translation"`

	Summary struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"summary"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Database.Path = "data/medbridge.db"
	cfg.Translation.Engine = "mymemory"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads the YAML file at path merged over the defaults. An empty path
// returns the defaults. The summary API key additionally falls back to the
// GROQ_API_KEY environment variable so the secret can stay out of files.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if cfg.Summary.APIKey == "" {
		cfg.Summary.APIKey = os.Getenv("GROQ_API_KEY")
	}
	return cfg, nil
}
