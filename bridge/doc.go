// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package bridge connects one PTY session to one frontend connection.
//
// [Bridge.Run] multiplexes the terminal's byte stream, its window size,
// and the name and working directory of its foreground process over a
// single connection using the frames of [frame]. It runs these units
// concurrently:
//
//   - the PTY forwarder reads terminal output and queues Data frames
//   - the network forwarder decodes frames from the connection, writing
//     Data to the terminal and applying Size as a resize
//   - the name and cwd pollers sample the foreground process on every
//     tick of the [clock.Clock] and queue Name and Cwd frames when the
//     value changes
//   - the writer is the only goroutine that writes to the connection, so
//     frames from different units never interleave
//
// The first unit to finish ends the session. End of stream on either
// side (the frontend hung up, or the shell exited) is a clean shutdown
// and Run returns nil; protocol and I/O failures are returned. On the
// way out the writer flushes frames that were already queued, then the
// connection and the terminal are closed so that blocked reads return.
//
// Frames whose direction is PTY to network (Name, Cwd) are ignored with
// a warning when they arrive from the frontend. A frame with an unknown
// type or a malformed length is fatal.
package bridge
