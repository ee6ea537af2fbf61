package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds the contents of .reprjson/config.yaml.
type ProjectConfig struct {
	Version    string   `yaml:"version"`
	LogLevel   string   `yaml:"log_level"`
	LogFormat  string   `yaml:"log_format"`
	Include    []string `yaml:"include"`
	Exclude    []string `yaml:"exclude"`
	ToolLog    string   `yaml:"tool_log"`
	MaxWorkers int      `yaml:"max_workers"`
}

// loadProjectConfig reads .reprjson/config.yaml from the current directory.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(".reprjson/config.yaml")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveLogLevel returns the log level to use, applying the fallback chain:
//  1. Explicit --log-level flag value (non-empty override)
//  2. log_level from .reprjson/config.yaml
//  3. Default: "info"
func resolveLogLevel(flagValue string, cfg *ProjectConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.LogLevel != "" {
		return cfg.LogLevel
	}
	return "info"
}

// resolveToolLog returns the MCP tool-call log path, or "" for disabled.
func resolveToolLog(flagValue string, cfg *ProjectConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil {
		return cfg.ToolLog
	}
	return ""
}
