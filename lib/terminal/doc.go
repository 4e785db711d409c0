// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package terminal owns the pseudo-terminal session that wslpty exposes:
// it starts a shell on a fresh PTY and answers the four questions the
// bridge asks about it.
//
// [Start] allocates a PTY pair, applies the initial window size and the
// line discipline of a conventional interactive terminal (canonical
// mode, echo, signal characters, UTF-8 input, 38400 baud), and starts
// the shell as a session leader with the PTY slave as its controlling
// terminal. The returned [Session] is the PTY master: Read yields
// terminal output, Write delivers keyboard input.
//
// [Session.Resize] sets the window size (the kernel sends SIGWINCH to
// the foreground process group). [Session.ForegroundProcessName] and
// [Session.ForegroundWorkingDirectory] resolve the terminal's foreground
// process group and read its command name and working directory from
// /proc.
//
// PTY allocation and the /proc lookups are Linux-specific; on other
// platforms Start returns [ErrUnsupported].
package terminal
