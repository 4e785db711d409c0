// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wslpty/wslpty/lib/frame"
	"github.com/wslpty/wslpty/lib/netutil"
)

// forwardTerminal reads terminal output and queues each read as one Data
// frame.
func (b *Bridge) forwardTerminal(ctx context.Context, queue chan<- []byte) error {
	buffer := make([]byte, b.readBufferSize())
	for ctx.Err() == nil {
		n, err := b.Terminal.Read(buffer)
		if n > 0 {
			// Encode copies the bytes, so buffer is free for the next read.
			if !enqueue(ctx, queue, frame.Data(buffer[:n])) {
				return nil
			}
		}
		if err == nil || netutil.IsInterrupted(err) {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		if netutil.IsEndOfStream(err) {
			b.logger().Debug("terminal closed", "error", err)
			return errStreamEnded
		}
		return fmt.Errorf("reading terminal: %w", err)
	}
	return nil
}

// forwardConnection reads frames from the connection and applies them to
// the terminal.
func (b *Bridge) forwardConnection(ctx context.Context) error {
	var decoder frame.Decoder
	var pending bytes.Buffer
	buffer := make([]byte, b.readBufferSize())

	for ctx.Err() == nil {
		n, err := b.Connection.Read(buffer)
		if n > 0 {
			pending.Write(buffer[:n])
			if err := b.applyFrames(&decoder, &pending); err != nil {
				return err
			}
		}
		if err == nil || netutil.IsInterrupted(err) {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		if netutil.IsEndOfStream(err) {
			b.logger().Debug("connection closed by frontend", "error", err)
			return errStreamEnded
		}
		return fmt.Errorf("reading connection: %w", err)
	}
	return nil
}

// applyFrames handles every complete frame in pending.
func (b *Bridge) applyFrames(decoder *frame.Decoder, pending *bytes.Buffer) error {
	for {
		decoded, err := decoder.Decode(pending)
		if err != nil {
			return fmt.Errorf("decoding frame: %w", err)
		}
		if decoded == nil {
			return nil
		}

		switch f := decoded.(type) {
		case frame.Data:
			if _, err := b.Terminal.Write(f); err != nil {
				if netutil.IsEndOfStream(err) {
					b.logger().Debug("terminal closed during write", "error", err)
					return errStreamEnded
				}
				return fmt.Errorf("writing %d bytes to terminal: %w", len(f), err)
			}
		case frame.Size:
			if err := b.Terminal.Resize(f.Columns, f.Rows); err != nil {
				b.logger().Warn("resize failed",
					"columns", f.Columns,
					"rows", f.Rows,
					"error", err,
				)
				continue
			}
			b.logger().Debug("terminal resized", "columns", f.Columns, "rows", f.Rows)
		default:
			b.logger().Warn("ignoring frame sent by frontend", "type", decoded.Type())
		}
	}
}
