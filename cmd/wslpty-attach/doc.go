// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// wslpty-attach runs a shell through the wslpty backend and attaches it
// to the current terminal.
//
// It listens on a loopback port, launches the backend pointed at that
// port, and then relays keystrokes and window size changes to the
// backend and terminal output back to stdout. The terminal title
// follows the foreground process and its working directory.
//
// Usage:
//
//	wslpty-attach [--backend PATH] [--wsl] [--cwd DIR] [--shell PATH]
//
// With --wsl the backend is started through wsl.exe, which is how a
// Windows frontend reaches a shell inside the Windows Subsystem for
// Linux.
package main
