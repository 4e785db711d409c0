// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	ExitClean   = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError is an invalid-arguments error. It exits with ExitUsage.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode returns ExitUsage.
func (e *UsageError) ExitCode() int { return ExitUsage }

// Usage formats an argument or configuration error.
func Usage(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ExitCode returns the exit status for err: ExitClean for nil, the
// error's own ExitCode when any error in its chain provides one, and
// ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitClean
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitFailure
}

// Report writes "program: error: err" to w unless err is nil.
func Report(w io.Writer, program string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s: error: %v\n", program, err)
}

// Exit reports err on stderr and exits with ExitCode(err).
func Exit(program string, err error) {
	Report(os.Stderr, program, err)
	os.Exit(ExitCode(err))
}
