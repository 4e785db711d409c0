// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package main

import (
	"context"
	"syscall"
	"testing"

	"github.com/wslpty/wslpty/lib/testutil"
)

func TestWatchResizeSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resized := watchResize(ctx, -1)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGWINCH); err != nil {
		t.Fatalf("sending SIGWINCH: %v", err)
	}
	testutil.RequireReceive(t, resized, testTimeout, "waiting for SIGWINCH notification")
}
