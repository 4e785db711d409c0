// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger returns a logger writing to output at the given level: text
// when output is a terminal, JSON otherwise.
func NewLogger(output *os.File, level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(output.Fd())) {
		handler = slog.NewTextHandler(output, options)
	} else {
		handler = slog.NewJSONHandler(output, options)
	}
	return slog.New(handler)
}
