// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wslpty/wslpty/lib/clock"
)

// Defaults applied when the corresponding Bridge field is zero.
const (
	DefaultPollInterval   = 200 * time.Millisecond
	DefaultReadBufferSize = 8192
	DefaultQueueLength    = 64

	// flushTimeout bounds how long the writer may spend delivering
	// queued frames after the session has ended.
	flushTimeout = time.Second
)

// errStreamEnded is returned by a unit when its peer went away. It ends
// the session without being reported as a failure.
var errStreamEnded = errors.New("stream ended")

// Terminal is the PTY side of a session. terminal.Session implements
// it; tests substitute fakes.
//
// If the Terminal also implements io.Closer, Run closes it on shutdown.
type Terminal interface {
	io.ReadWriter

	// Resize sets the window size.
	Resize(columns, rows uint16) error

	// ForegroundProcessName returns the name of the foreground process.
	ForegroundProcessName() (string, error)

	// ForegroundWorkingDirectory returns the working directory of the
	// foreground process.
	ForegroundWorkingDirectory() (string, error)
}

// Bridge runs one session between a connection and a terminal.
type Bridge struct {
	// Connection carries frames to and from the frontend. Run closes it
	// on shutdown.
	Connection io.ReadWriteCloser

	// Terminal is the PTY side of the session.
	Terminal Terminal

	// Logger receives structured log output. If nil, slog.Default() is
	// used.
	Logger *slog.Logger

	// Clock drives the pollers and bounds the shutdown flush. If nil,
	// the real clock is used.
	Clock clock.Clock

	// PollInterval is the time between foreground process samples.
	PollInterval time.Duration

	// ReadBufferSize bounds a single read from either side.
	ReadBufferSize int

	// QueueLength is the capacity of the writer's frame queue.
	QueueLength int
}

// logger returns the configured logger or the default.
func (b *Bridge) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Bridge) clock() clock.Clock {
	if b.Clock != nil {
		return b.Clock
	}
	return clock.Real()
}

func (b *Bridge) pollInterval() time.Duration {
	if b.PollInterval > 0 {
		return b.PollInterval
	}
	return DefaultPollInterval
}

func (b *Bridge) readBufferSize() int {
	if b.ReadBufferSize > 0 {
		return b.ReadBufferSize
	}
	return DefaultReadBufferSize
}

func (b *Bridge) queueLength() int {
	if b.QueueLength > 0 {
		return b.QueueLength
	}
	return DefaultQueueLength
}

// Run forwards between the connection and the terminal until either
// side ends the stream, a unit fails, or ctx is cancelled. It returns
// nil for end of stream and cancellation, and the first unit failure
// otherwise. The connection, and the terminal when it is an io.Closer,
// are closed before Run returns.
func (b *Bridge) Run(ctx context.Context) error {
	if b.Connection == nil {
		return fmt.Errorf("bridge: Connection is required")
	}
	if b.Terminal == nil {
		return fmt.Errorf("bridge: Terminal is required")
	}

	group, ctx := errgroup.WithContext(ctx)
	queue := make(chan []byte, b.queueLength())
	writerDone := make(chan struct{})

	b.logger().Debug("session started",
		"poll_interval", b.pollInterval(),
		"read_buffer_size", b.readBufferSize(),
	)

	group.Go(func() error {
		defer close(writerDone)
		return unit("writer", b.writeFrames(ctx, queue))
	})
	group.Go(func() error {
		return unit("pty reader", b.forwardTerminal(ctx, queue))
	})
	group.Go(func() error {
		return unit("network reader", b.forwardConnection(ctx))
	})
	group.Go(func() error {
		return unit("name poller", b.poll(ctx, queue, "name",
			b.Terminal.ForegroundProcessName, nameFrame))
	})
	group.Go(func() error {
		return unit("cwd poller", b.poll(ctx, queue, "cwd",
			b.Terminal.ForegroundWorkingDirectory, cwdFrame))
	})
	group.Go(func() error {
		b.closeOnDone(ctx, writerDone)
		return nil
	})

	err := group.Wait()
	if errors.Is(err, errStreamEnded) {
		b.logger().Info("session ended", "reason", err)
		return nil
	}
	if err != nil {
		b.logger().Error("session failed", "error", err)
		return err
	}
	b.logger().Info("session stopped")
	return nil
}

// unit labels a failing unit's error with its name. errStreamEnded stays
// matchable through the wrapping.
func unit(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// closeOnDone waits for the session to end, gives the writer a bounded
// time to flush, then closes both ends so that blocked reads return.
func (b *Bridge) closeOnDone(ctx context.Context, writerDone <-chan struct{}) {
	<-ctx.Done()

	// Connection deadlines are wall-clock times.
	if deadliner, ok := b.Connection.(interface{ SetWriteDeadline(time.Time) error }); ok {
		if err := deadliner.SetWriteDeadline(time.Now().Add(flushTimeout)); err != nil {
			b.logger().Debug("setting flush deadline", "error", err)
		}
	}
	select {
	case <-writerDone:
	case <-b.clock().After(flushTimeout):
		b.logger().Warn("writer did not finish flushing", "timeout", flushTimeout)
	}

	if err := b.Connection.Close(); err != nil {
		b.logger().Debug("closing connection", "error", err)
	}
	if closer, ok := b.Terminal.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			b.logger().Debug("closing terminal", "error", err)
		}
	}
}
