// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvironmentPrefix is the prefix of every environment variable read by
// [Load].
const EnvironmentPrefix = "WSLPTY"

// FileVariable names the environment variable holding the config file
// path when --config is not given.
const FileVariable = EnvironmentPrefix + "_CONFIG"

// Config holds the settings of a backend session.
//
// Environment variable names are the field names split into words and
// prefixed, as in WSLPTY_WORKING_DIRECTORY. Fields carry no envconfig
// defaults, so an unset variable leaves the earlier value in place.
type Config struct {
	// Host is the address the backend dials. The frontend always listens
	// on loopback, so this rarely changes.
	Host string `yaml:"host" split_words:"true"`

	// Columns and Rows are the initial window size of the PTY.
	Columns uint16 `yaml:"cols" split_words:"true"`
	Rows    uint16 `yaml:"rows" split_words:"true"`

	// WorkingDirectory is where the shell starts. Empty means the
	// backend's own working directory; a leading ~ expands to $HOME.
	WorkingDirectory string `yaml:"cwd" split_words:"true"`

	// Shell is the program run on the PTY. Empty falls back to $SHELL,
	// then /bin/sh.
	Shell string `yaml:"shell" split_words:"true"`

	// PollInterval is how often the foreground process name and working
	// directory are sampled.
	PollInterval time.Duration `yaml:"poll_interval" split_words:"true"`

	// ReadBufferSize bounds a single read from the PTY or the connection.
	ReadBufferSize int `yaml:"read_buffer_size" split_words:"true"`

	// ConnectAttempts is the number of dial attempts before giving up.
	ConnectAttempts uint `yaml:"connect_attempts" split_words:"true"`

	// ConnectDelay is the pause between dial attempts.
	ConnectDelay time.Duration `yaml:"connect_delay" split_words:"true"`

	// LogLevel is one of debug, info, warn, or error.
	LogLevel string `yaml:"log_level" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:            "127.0.0.1",
		Columns:         80,
		Rows:            40,
		PollInterval:    200 * time.Millisecond,
		ReadBufferSize:  8192,
		ConnectAttempts: 1,
		ConnectDelay:    250 * time.Millisecond,
		LogLevel:        "info",
	}
}

// Load returns the defaults overlaid with the file at path (skipped when
// path is empty) and then with WSLPTY_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvironmentPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading %s_* environment: %w", EnvironmentPrefix, err)
	}

	return cfg, nil
}

// FilePath returns flagValue when set, otherwise the value of
// WSLPTY_CONFIG.
func FilePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(FileVariable)
}

// loadFile merges a YAML file into the current config. Keys missing from
// the file keep their current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Host == "" {
		errs = append(errs, fmt.Errorf("host is required"))
	}
	if c.Columns == 0 {
		errs = append(errs, fmt.Errorf("cols must be at least 1"))
	}
	if c.Rows == 0 {
		errs = append(errs, fmt.Errorf("rows must be at least 1"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if c.ReadBufferSize <= 0 {
		errs = append(errs, fmt.Errorf("read_buffer_size must be positive, got %d", c.ReadBufferSize))
	}
	if c.ConnectAttempts == 0 {
		errs = append(errs, fmt.Errorf("connect_attempts must be at least 1"))
	}
	if c.ConnectDelay < 0 {
		errs = append(errs, fmt.Errorf("connect_delay must not be negative, got %s", c.ConnectDelay))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q must be one of: debug, info, warn, error", c.LogLevel)
	}
	return level, nil
}
