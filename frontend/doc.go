// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package frontend is the listening side of a wslpty session.
//
// [Listen] binds a loopback port and, when [Options].Command is set,
// launches the backend with that port and the initial window size. The
// first connection to arrive becomes the session; later connections are
// closed immediately.
//
// [Frontend.Write] and [Frontend.Resize] may be called before the backend
// has connected. Their frames are queued and flushed, in order, as soon
// as the connection is accepted.
//
// Terminal output arrives on [Frontend.Output]. The foreground process
// name and working directory reported by the backend are available from
// [Frontend.Process] and [Frontend.Cwd], and each change is published on
// [Frontend.Changes].
package frontend
