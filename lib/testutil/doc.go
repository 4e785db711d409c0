// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds the channel helpers shared by the concurrent
// tests of the bridge and frontend packages.
//
// [RequireReceive] and [RequireClosed] wrap the "select with a timeout"
// pattern so a hung goroutine fails the test with a message instead of
// stalling the whole test binary. They are the only place tests wait on
// wall-clock time; poll ticks are driven by lib/clock's fake clock.
package testutil
