// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package frame implements the wire format shared by the wslpty backend
// and its frontend: a single TCP stream carrying terminal bytes, resize
// commands, and foreground process updates as length-prefixed frames.
//
// Every frame is a 4-byte big-endian length, a 1-byte type, and a
// payload:
//
//	u32 length            // 1 + len(payload)
//	u8  type              // 0=Data 1=Size 2=Name 3=Cwd
//	u8[length-1] payload
//
// [Data] carries raw terminal bytes in either direction. [Size] carries
// terminal dimensions from the frontend (columns, then rows, each a
// big-endian uint16). [Name] and [Cwd] carry the terminal's foreground
// process name and working directory from the backend.
//
// [Encode] and [AppendEncode] are pure functions. [Decoder] is the
// incremental counterpart: it reassembles frames from a caller-owned
// [bytes.Buffer] that grows as bytes arrive from a blocking read, and
// returns (nil, nil) until a whole frame is buffered. The protocol has no
// delimiter to resynchronize on, so the decoder only ever consumes whole
// validated pieces: the 4-byte prefix once it is available, then the
// full declared frame. A frame with an unknown type is consumed in full
// before the error is reported, which leaves the buffer aligned on the
// next frame. A declared length above [MaxFrameLength] cannot be skipped
// safely and fails the decoder permanently.
package frame
