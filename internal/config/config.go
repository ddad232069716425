// Package config loads tool settings from an optional YAML file with
// environment overrides. Command-line flags take precedence over both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all file- and environment-driven settings.
type Config struct {
	InputDir      string
	OutputDir     string
	Extension     string
	HistoryDB     string
	WatchDebounce time.Duration
}

// fileConfig is the on-disk YAML shape. Durations are strings so the file
// can say "2s" or "750ms".
type fileConfig struct {
	InputDir      string `yaml:"input_dir"`
	OutputDir     string `yaml:"output_dir"`
	Extension     string `yaml:"extension"`
	HistoryDB     string `yaml:"history_db"`
	WatchDebounce string `yaml:"watch_debounce"`
}

// Load reads path (when non-empty and present) and applies environment
// overrides and defaults. A missing explicit config file is an error; the
// default path simply falling back to defaults is not.
func Load(path string) (Config, error) {
	var fc fileConfig

	explicit := path != ""
	if !explicit {
		path = "rollcall.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; env and defaults cover everything.
	default:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Config{
		InputDir:  fc.InputDir,
		OutputDir: fc.OutputDir,
		Extension: fc.Extension,
		HistoryDB: fc.HistoryDB,
	}
	if fc.WatchDebounce != "" {
		d, err := time.ParseDuration(fc.WatchDebounce)
		if err != nil {
			return Config{}, fmt.Errorf("parsing watch_debounce %q: %w", fc.WatchDebounce, err)
		}
		cfg.WatchDebounce = d
	}

	if v := os.Getenv("ROLLCALL_INPUT_DIR"); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv("ROLLCALL_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("ROLLCALL_HISTORY_DB"); v != "" {
		cfg.HistoryDB = v
	}

	if cfg.Extension == "" {
		cfg.Extension = ".csv"
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 500 * time.Millisecond
	}
	if cfg.HistoryDB == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.HistoryDB = filepath.Join(home, ".rollcall", "history.db")
	}

	return cfg, nil
}
