// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"

	"github.com/wslpty/wslpty/lib/frame"
	"github.com/wslpty/wslpty/lib/netutil"
)

// enqueue encodes f and hands it to the writer. It returns false if the
// session ended before the writer accepted the frame.
func enqueue(ctx context.Context, queue chan<- []byte, f frame.Frame) bool {
	encoded := frame.Encode(f)
	select {
	case queue <- encoded:
		return true
	case <-ctx.Done():
		return false
	}
}

// writeFrames writes queued frames to the connection, one Write per
// frame, until the session ends. Frames still queued at that point are
// flushed before returning.
func (b *Bridge) writeFrames(ctx context.Context, queue <-chan []byte) error {
	for {
		select {
		case encoded := <-queue:
			if err := b.writeFrame(encoded); err != nil {
				return err
			}
		case <-ctx.Done():
			return b.flush(queue)
		}
	}
}

// flush writes whatever is already queued without waiting for more.
func (b *Bridge) flush(queue <-chan []byte) error {
	flushed := 0
	for {
		select {
		case encoded := <-queue:
			if err := b.writeFrame(encoded); err != nil {
				b.logger().Debug("dropping queued frames after write failure",
					"flushed", flushed,
					"error", err,
				)
				return nil
			}
			flushed++
		default:
			if flushed > 0 {
				b.logger().Debug("flushed queued frames", "count", flushed)
			}
			return nil
		}
	}
}

func (b *Bridge) writeFrame(encoded []byte) error {
	_, err := b.Connection.Write(encoded)
	if err == nil {
		return nil
	}
	if netutil.IsEndOfStream(err) {
		return errStreamEnded
	}
	return err
}
