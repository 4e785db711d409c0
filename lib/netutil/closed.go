// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil classifies the errors returned by the reads and writes
// at the two ends of a terminal bridge: the TCP connection to the
// frontend and the PTY master.
package netutil

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"
)

// IsEndOfStream reports whether err means the other side went away
// rather than that something broke.
//
// On the connection side that is EOF, a connection already closed by
// this process during shutdown, a broken pipe, or a reset. An in-memory
// net.Pipe reports a closed peer as io.ErrClosedPipe. On the PTY
// side, Linux reports EIO from a master read once the last slave
// descriptor closes (the shell exited), which is the PTY's end of
// stream.
func IsEndOfStream(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) || errors.Is(err, os.ErrClosed) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET || errno == syscall.EIO
	}
	return false
}

// IsInterrupted reports whether err is a read interrupted by a signal
// before any data arrived. Such reads are retried immediately.
func IsInterrupted(err error) bool {
	return errors.Is(err, syscall.EINTR)
}
