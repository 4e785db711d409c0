// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package process turns the error returned by a binary's run function
// into a process exit status. It is the one place outside the CLIs'
// usage text that writes to stderr directly, because it runs before the
// structured logger exists (flag errors) or after it has been torn down.
//
// Exit statuses:
//
//   - [ExitClean] (0): the session ended because a stream reached its end
//     or a shutdown signal arrived.
//   - [ExitFailure] (1): a fatal session error.
//   - [ExitUsage] (2): invalid arguments or configuration.
//
// Errors carrying their own status implement ExitCode() int; [Usage]
// builds one for argument errors.
package process
