// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// wslpty is the backend of a terminal proxy. It connects to a frontend
// listening on a local TCP port, starts a shell on a new PTY, and relays
// the session over that one connection until either side ends it.
//
// Usage:
//
//	wslpty <port> [--cols N] [--rows N] [--cwd DIR] [--shell PATH]
//
// The frontend normally launches wslpty itself, passing the port it
// listens on and the initial window size. Exit status is 0 when the
// shell or the frontend ends the session, 1 on a session failure, and 2
// for invalid arguments or configuration.
package main
