// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"syscall"
	"testing"
)

func TestIsEndOfStream(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", io.EOF, true},
		{"wrapped eof", fmt.Errorf("read connection: %w", io.EOF), true},
		{"closed pipe", io.ErrClosedPipe, true},
		{"closed connection", net.ErrClosed, true},
		{"closed file", os.ErrClosed, true},
		{"broken pipe", &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)}, true},
		{"connection reset", &net.OpError{Op: "read", Err: os.NewSyscallError("read", syscall.ECONNRESET)}, true},
		{"pty hangup", &fs.PathError{Op: "read", Path: "/dev/ptmx", Err: syscall.EIO}, true},
		{"permission denied", &fs.PathError{Op: "read", Path: "/dev/ptmx", Err: syscall.EACCES}, false},
		{"unexpected eof", io.ErrUnexpectedEOF, false},
		{"other", errors.New("boom"), false},
	}
	for _, test := range tests {
		if got := IsEndOfStream(test.err); got != test.want {
			t.Errorf("IsEndOfStream(%s) = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestIsInterrupted(t *testing.T) {
	t.Parallel()
	if !IsInterrupted(&fs.PathError{Op: "read", Path: "/dev/ptmx", Err: syscall.EINTR}) {
		t.Error("EINTR not reported as interrupted")
	}
	if IsInterrupted(io.EOF) {
		t.Error("EOF reported as interrupted")
	}
	if IsInterrupted(nil) {
		t.Error("nil reported as interrupted")
	}
}
