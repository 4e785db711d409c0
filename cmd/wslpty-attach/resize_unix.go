// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// watchResize notifies the returned channel on every SIGWINCH until ctx
// is cancelled.
func watchResize(ctx context.Context, _ int) <-chan struct{} {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGWINCH)

	resized := make(chan struct{}, 1)
	go func() {
		defer signal.Stop(signals)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				notify(resized)
			}
		}
	}()
	return resized
}
