// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wslpty.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()

	if cfg.Host != "127.0.0.1" {
		t.Errorf("expected host=127.0.0.1, got %s", cfg.Host)
	}
	if cfg.Columns != 80 || cfg.Rows != 40 {
		t.Errorf("expected 80x40, got %dx%d", cfg.Columns, cfg.Rows)
	}
	if cfg.PollInterval != 200*time.Millisecond {
		t.Errorf("expected poll_interval=200ms, got %s", cfg.PollInterval)
	}
	if cfg.ConnectAttempts != 1 {
		t.Errorf("expected connect_attempts=1, got %d", cfg.ConnectAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load without file or environment = %+v, want defaults", *cfg)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
cols: 132
cwd: ~/projects
shell: /bin/zsh
poll_interval: 1s
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Columns != 132 {
		t.Errorf("expected cols=132, got %d", cfg.Columns)
	}
	if cfg.WorkingDirectory != "~/projects" {
		t.Errorf("expected cwd=~/projects, got %s", cfg.WorkingDirectory)
	}
	if cfg.Shell != "/bin/zsh" {
		t.Errorf("expected shell=/bin/zsh, got %s", cfg.Shell)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("expected poll_interval=1s, got %s", cfg.PollInterval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level=debug, got %s", cfg.LogLevel)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Rows != 40 {
		t.Errorf("expected rows=40 from defaults, got %d", cfg.Rows)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("expected host from defaults, got %s", cfg.Host)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
shell: /bin/zsh
rows: 50
`)
	t.Setenv("WSLPTY_SHELL", "/bin/bash")
	t.Setenv("WSLPTY_WORKING_DIRECTORY", "/srv")
	t.Setenv("WSLPTY_POLL_INTERVAL", "500ms")
	t.Setenv("WSLPTY_CONNECT_ATTEMPTS", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Shell != "/bin/bash" {
		t.Errorf("expected shell from environment, got %s", cfg.Shell)
	}
	if cfg.WorkingDirectory != "/srv" {
		t.Errorf("expected cwd from environment, got %s", cfg.WorkingDirectory)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("expected poll_interval=500ms, got %s", cfg.PollInterval)
	}
	if cfg.ConnectAttempts != 5 {
		t.Errorf("expected connect_attempts=5, got %d", cfg.ConnectAttempts)
	}
	if cfg.Rows != 50 {
		t.Errorf("expected rows=50 from the file, got %d", cfg.Rows)
	}
}

func TestLoad_IgnoresUnprefixedVariables(t *testing.T) {
	t.Setenv("SHELL", "/bin/fish")
	t.Setenv("HOST", "example.invalid")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Shell != "" {
		t.Errorf("SHELL leaked into config: %s", cfg.Shell)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("HOST leaked into config: %s", cfg.Host)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "cols: [not, a, number]\n")
		_, err := Load(path)
		if err == nil {
			t.Fatal("expected error for invalid YAML")
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error %q does not name the file", err)
		}
	})

	t.Run("invalid environment value", func(t *testing.T) {
		t.Setenv("WSLPTY_ROWS", "seventy")
		if _, err := Load(""); err == nil {
			t.Fatal("expected error for non-numeric WSLPTY_ROWS")
		}
	})

	t.Run("environment value out of range", func(t *testing.T) {
		t.Setenv("WSLPTY_COLUMNS", "70000")
		if _, err := Load(""); err == nil {
			t.Fatal("expected error for WSLPTY_COLUMNS above 65535")
		}
	})
}

func TestFilePath(t *testing.T) {
	t.Setenv(FileVariable, "/etc/wslpty.yaml")

	if got := FilePath("/tmp/explicit.yaml"); got != "/tmp/explicit.yaml" {
		t.Errorf("FilePath with flag = %q, want the flag value", got)
	}
	if got := FilePath(""); got != "/etc/wslpty.yaml" {
		t.Errorf("FilePath without flag = %q, want %s", got, FileVariable)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty host", func(c *Config) { c.Host = "" }, "host is required"},
		{"zero columns", func(c *Config) { c.Columns = 0 }, "cols"},
		{"zero rows", func(c *Config) { c.Rows = 0 }, "rows"},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }, "poll_interval"},
		{"zero read buffer", func(c *Config) { c.ReadBufferSize = 0 }, "read_buffer_size"},
		{"zero attempts", func(c *Config) { c.ConnectAttempts = 0 }, "connect_attempts"},
		{"negative delay", func(c *Config) { c.ConnectDelay = -time.Second }, "connect_delay"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			test.modify(cfg)
			err := cfg.Validate()
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("error %q does not contain %q", err, test.wantErr)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Host = ""
	cfg.Rows = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"host", "rows"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, test := range tests {
		cfg := &Config{LogLevel: test.value}
		got, err := cfg.Level()
		if err != nil {
			t.Errorf("Level(%q): %v", test.value, err)
			continue
		}
		if got != test.want {
			t.Errorf("Level(%q) = %v, want %v", test.value, got, test.want)
		}
	}
}

func TestNewLogger_JSONWhenNotTerminal(t *testing.T) {
	t.Parallel()
	output, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer output.Close()

	logger := NewLogger(output, slog.LevelWarn)
	logger.Info("dropped")
	logger.Warn("kept", "unit", "poller")

	data, err := os.ReadFile(output.Name())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Contains(text, "dropped") {
		t.Errorf("message below the level was written: %s", text)
	}
	if !strings.HasPrefix(text, "{") || !strings.Contains(text, `"unit":"poller"`) {
		t.Errorf("expected a JSON record, got %q", text)
	}
}
