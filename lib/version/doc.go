// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build information for the wslpty binaries.
//
// Values are injected at build time, for example:
//
//	go build -ldflags "-X github.com/wslpty/wslpty/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// They default to "unknown" / "0.1.0-dev" in development builds and
// tests.
package version
