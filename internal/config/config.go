// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	ProjectDir string `json:"project_dir,omitempty"` // Target project directory
	Output     string `json:"output,omitempty"`      // Report path override (default: <project>/check_overflow.json)

	DevCommand []string `json:"dev_command,omitempty"` // Dev server invocation

	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for run persistence
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.ProjectDir != "" {
		info, err := os.Stat(c.ProjectDir)
		if err != nil {
			return fmt.Errorf("config error: 'project_dir' %s: %w", c.ProjectDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("config error: 'project_dir' %s is not a directory", c.ProjectDir)
		}
	}

	if c.DevCommand != nil && len(c.DevCommand) == 0 {
		return fmt.Errorf("config error: 'dev_command' must not be empty when set")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ProjectDir == "" {
		result.ProjectDir = defaults.ProjectDir
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if len(result.DevCommand) == 0 {
		result.DevCommand = defaults.DevCommand
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	return result
}
