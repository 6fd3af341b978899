package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"jobshell/internal/jobs"
)

const (
	DefaultFileName = ".jobshell.yml"
	DefaultPrompt   = "tsh> "
)

type Config struct {
	HistoryFile string `yaml:"history_file"`
	HomeDir     string `yaml:"home_dir"`
	Prompt      string `yaml:"prompt"`
	NoPrompt    bool   `yaml:"no_prompt"`
	Verbose     bool   `yaml:"verbose"`
	MaxJobs     int    `yaml:"max_jobs"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultPath returns the config file looked up when none is given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return filepath.Join(home, DefaultFileName), nil
}

// Load reads the config file at path. A missing file is not an error: the
// defaults are used instead.
func Load(file string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", file, err)
		}
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setDefaults() error {
	if c.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home directory: %w", err)
		}
		c.HomeDir = home
	}

	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.HomeDir, ".jobshell_history")
	}

	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}

	if c.MaxJobs < 1 {
		c.MaxJobs = jobs.DefaultCapacity
	}

	return nil
}

// PromptString returns the prompt to show, empty when prompting is disabled.
func (c *Config) PromptString() string {
	if c.NoPrompt {
		return ""
	}

	return c.Prompt
}
