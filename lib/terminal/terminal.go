// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

// DefaultShell is started when neither Options.Shell nor $SHELL names
// one.
const DefaultShell = "/bin/sh"

// closeGracePeriod is how long Close waits for the shell to exit after
// the PTY hangs up before killing it.
const closeGracePeriod = 2 * time.Second

// ErrUnsupported is returned on platforms without PTY support.
var ErrUnsupported = errors.New("terminal sessions are not supported on this platform")

// Options configures a new session.
type Options struct {
	// Columns and Rows are the initial window size.
	Columns uint16
	Rows    uint16

	// WorkingDirectory is where the shell starts. Empty means the
	// current directory; a leading "~" is expanded against $HOME.
	WorkingDirectory string

	// Shell is the program to run. Empty falls back to $SHELL, then
	// DefaultShell.
	Shell string

	// Environment is the shell's environment. Nil inherits this
	// process's environment.
	Environment []string
}

// Session is a running shell attached to a PTY. Read and Write operate
// on the PTY master and may be called from different goroutines.
type Session struct {
	master  *os.File
	command *exec.Cmd

	exited  chan struct{}
	waitErr error

	closeOnce sync.Once
	closeErr  error
}

// PID returns the shell's process id.
func (s *Session) PID() int {
	return s.command.Process.Pid
}

// Read reads terminal output from the PTY master.
func (s *Session) Read(p []byte) (int, error) {
	return s.master.Read(p)
}

// Write sends input to the PTY master.
func (s *Session) Write(p []byte) (int, error) {
	return s.master.Write(p)
}

// Wait blocks until the shell exits and returns its exit code. A shell
// killed by a signal reports -1.
func (s *Session) Wait() (int, error) {
	<-s.exited
	var exitErr *exec.ExitError
	if errors.As(s.waitErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if s.waitErr != nil {
		return -1, s.waitErr
	}
	return 0, nil
}

// Close hangs up the terminal by closing the PTY master, which also
// unblocks any pending Read. The shell receives SIGHUP; if it has not
// exited within a grace period it is killed. Close is idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.master.Close()
		select {
		case <-s.exited:
			return
		default:
		}
		_ = s.command.Process.Signal(syscall.SIGHUP)
		select {
		case <-s.exited:
		case <-time.After(closeGracePeriod):
			_ = s.command.Process.Kill()
			<-s.exited
		}
	})
	return s.closeErr
}

// watch reaps the shell once it exits.
func (s *Session) watch() {
	s.waitErr = s.command.Wait()
	close(s.exited)
}

// ResolveShell picks the program to run: the explicit choice, then
// $SHELL, then DefaultShell.
func ResolveShell(shell string) string {
	if shell != "" {
		return shell
	}
	if environment := os.Getenv("SHELL"); environment != "" {
		return environment
	}
	return DefaultShell
}

// ResolveWorkingDirectory expands a leading "~" against home and checks
// that the result is a directory. An empty directory is returned as is.
func ResolveWorkingDirectory(directory, home string) (string, error) {
	if directory == "" {
		return "", nil
	}
	if directory == "~" || strings.HasPrefix(directory, "~/") {
		if home == "" {
			return "", fmt.Errorf("cannot expand %q: home directory unknown", directory)
		}
		directory = filepath.Join(home, strings.TrimPrefix(directory, "~"))
	}
	info, err := os.Stat(directory)
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("working directory %s is not a directory", directory)
	}
	return directory, nil
}
