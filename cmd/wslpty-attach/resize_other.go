// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package main

import (
	"context"

	"golang.org/x/term"

	"github.com/wslpty/wslpty/lib/clock"
)

// watchResize polls the console size, since Windows delivers no resize
// signal.
func watchResize(ctx context.Context, terminalFd int) <-chan struct{} {
	return pollResize(ctx, clock.Real(), resizePollInterval, func() (int, int, error) {
		return term.GetSize(terminalFd)
	})
}
