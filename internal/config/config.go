// Package config loads engine and CLI settings from an optional YAML file
// with environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings for the plan engine and its CLI shell.
type Config struct {
	// DBPath is the SQLite document store location. ":memory:" keeps the
	// store in-process.
	DBPath string `yaml:"db_path"`

	// RetryAttempts bounds the conflict-retry loop; RetryDelayMs is the
	// fixed delay between attempts.
	RetryAttempts int `yaml:"retry_attempts"`
	RetryDelayMs  int `yaml:"retry_delay_ms"`

	// Collaborators are the two opaque collaborator identifiers used as
	// assignee values and for metrics partitioning.
	Collaborators []string `yaml:"collaborators"`

	// LogOps enables slog output of engine use-case events to stderr.
	LogOps bool `yaml:"log_ops"`

	// NoColor suppresses lipgloss styling even on a terminal.
	NoColor bool `yaml:"no_color"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DBPath:        filepath.Join(home, ".taskbuddy", "taskbuddy.db"),
		RetryAttempts: 5,
		RetryDelayMs:  100,
	}
}

// DefaultPath is the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".taskbuddy", "config.yaml")
}

// Load reads the config file at path (a missing file is not an error), then
// applies TASKBUDDY_* environment overrides. An empty path uses DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryDelayMs < 0 {
		cfg.RetryDelayMs = 0
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKBUDDY_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKBUDDY_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetryAttempts = n
		}
	}
	if v := os.Getenv("TASKBUDDY_RETRY_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RetryDelayMs = n
		}
	}
	if v := os.Getenv("TASKBUDDY_COLLABORATORS"); v != "" {
		var ids []string
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		cfg.Collaborators = ids
	}
	if v := os.Getenv("TASKBUDDY_LOG_OPS"); v != "" {
		cfg.LogOps, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TASKBUDDY_NO_COLOR"); v != "" {
		cfg.NoColor, _ = strconv.ParseBool(v)
	}
}
