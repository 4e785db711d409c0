// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"

	"github.com/wslpty/wslpty/lib/frame"
)

func nameFrame(value string) frame.Frame { return frame.Name(value) }

func cwdFrame(value string) frame.Frame { return frame.Cwd(value) }

// poll samples query immediately and then on every tick, queuing a frame
// built by wrap whenever the result differs from the last value sent.
// The last value starts empty, so an empty first result is not sent.
//
// A failed query leaves the last value unchanged. Only the first failure
// of a consecutive run is logged as a warning; the rest go to debug.
func (b *Bridge) poll(ctx context.Context, queue chan<- []byte, subject string, query func() (string, error), wrap func(string) frame.Frame) error {
	ticker := b.clock().NewTicker(b.pollInterval())
	defer ticker.Stop()

	logger := b.logger().With("subject", subject)
	var last string
	failing := false

	for {
		value, err := query()
		switch {
		case err != nil:
			if !failing {
				logger.Warn("foreground query failed", "error", err)
			} else {
				logger.Debug("foreground query failed", "error", err)
			}
			failing = true
		case value != last:
			failing = false
			last = value
			if !enqueue(ctx, queue, wrap(value)) {
				return nil
			}
			logger.Debug("foreground changed", "value", value)
		default:
			failing = false
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
