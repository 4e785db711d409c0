// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"time"

	"github.com/wslpty/wslpty/lib/clock"
)

// resizePollInterval is how often the terminal size is sampled where the
// platform has no resize signal.
const resizePollInterval = 250 * time.Millisecond

// notify sends on a capacity-1 channel without blocking. A pending
// notification already covers the new one.
func notify(resized chan<- struct{}) {
	select {
	case resized <- struct{}{}:
	default:
	}
}

// pollResize samples size on every tick and notifies the returned
// channel when the result differs from the previous sample. Failed
// samples are skipped. Polling stops when ctx is cancelled.
func pollResize(ctx context.Context, clk clock.Clock, interval time.Duration, size func() (int, int, error)) <-chan struct{} {
	resized := make(chan struct{}, 1)
	lastColumns, lastRows, _ := size()
	ticker := clk.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			columns, rows, err := size()
			if err != nil || (columns == lastColumns && rows == lastRows) {
				continue
			}
			lastColumns, lastRows = columns, rows
			notify(resized)
		}
	}()
	return resized
}
