// Package config loads the cookbook settings. YAML files provide defaults
// (user level first, then project level), environment variables override
// them. The .env file itself is loaded by main via godotenv before Load
// runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultModel is used when neither flags, config files nor environment
// name one.
const DefaultModel = "anthropic::2024-10-22::claude-sonnet-4-latest"

// SearchSettings hold the context-search defaults.
type SearchSettings struct {
	Repos       []string `yaml:"repos"`
	CodeResults int      `yaml:"code_results"`
	TextResults int      `yaml:"text_results"`
}

// Config is the resolved configuration for one command invocation.
type Config struct {
	Endpoint       string         `yaml:"endpoint"`
	AccessToken    string         `yaml:"access_token"`
	XRequestedWith string         `yaml:"x_requested_with"`
	DefaultModel   string         `yaml:"default_model"`
	OutputDir      string         `yaml:"output_dir"`
	Search         SearchSettings `yaml:"search"`
}

// Load resolves the configuration. Sources in priority order (lowest to
// highest): built-in defaults, ~/.codybook/config.yaml, ./codybook.yaml,
// environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		XRequestedWith: "codybook",
		DefaultModel:   DefaultModel,
		OutputDir:      "responses",
		Search: SearchSettings{
			Repos:       []string{"github.com/sourcegraph/cody", "github.com/sourcegraph/sourcegraph"},
			CodeResults: 5,
			TextResults: 3,
		},
	}

	homeDir, _ := os.UserHomeDir()
	sources := []string{
		filepath.Join(homeDir, ".codybook", "config.yaml"),
		"codybook.yaml",
	}
	for _, src := range sources {
		if data, err := os.ReadFile(src); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", src, err)
			}
		}
	}

	if v := os.Getenv("SOURCEGRAPH_URL"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("SOURCEGRAPH_ACCESS_TOKEN"); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv("SOURCEGRAPH_X_REQUESTED_WITH"); v != "" {
		cfg.XRequestedWith = v
	}
	if v := os.Getenv("CODYBOOK_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	return cfg, nil
}

// Validate checks that the gateway connection settings are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" || c.AccessToken == "" {
		return fmt.Errorf("please set SOURCEGRAPH_URL and SOURCEGRAPH_ACCESS_TOKEN in your .env file")
	}
	return nil
}
