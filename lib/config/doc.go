// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the wslpty binaries.
//
// Values are layered in a fixed order, each layer overriding the one
// before it:
//
//   - [Default] built-in values
//   - an optional YAML file named by --config or WSLPTY_CONFIG
//   - WSLPTY_* environment variables (WSLPTY_SHELL, WSLPTY_POLL_INTERVAL, ...)
//   - command-line flags the user actually set
//
// The last layer belongs to the commands; this package handles the
// first three through [Load]. There is no automatic file discovery: a
// file is read only when one is named explicitly.
//
// [NewLogger] builds the process logger from the configured level.
//
// This package depends on no other wslpty packages.
package config
