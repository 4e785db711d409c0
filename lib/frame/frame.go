// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"encoding/binary"
	"fmt"
)

// Type identifies the payload carried by a frame. Values are part of the
// wire contract and never change.
type Type byte

const (
	// TypeData carries raw terminal bytes. Bidirectional: PTY output flows
	// backend→frontend, keyboard input flows frontend→backend.
	TypeData Type = 0

	// TypeSize carries terminal dimensions. Frontend→backend only. The
	// payload is exactly 4 bytes: columns then rows, each a big-endian
	// uint16.
	TypeSize Type = 1

	// TypeName carries the UTF-8 name of the terminal's foreground
	// process. Backend→frontend only.
	TypeName Type = 2

	// TypeCwd carries the UTF-8 working directory of the terminal's
	// foreground process. Backend→frontend only.
	TypeCwd Type = 3
)

// String returns a human-readable name for the frame type.
func (t Type) String() string {
	switch t {
	case TypeData:
		return "data"
	case TypeSize:
		return "size"
	case TypeName:
		return "name"
	case TypeCwd:
		return "cwd"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(t))
	}
}

// prefixLength is the size of the big-endian length prefix.
const prefixLength = 4

// HeaderLength is the fixed overhead of every frame: the length prefix
// plus the type byte.
const HeaderLength = prefixLength + 1

// sizePayloadLength is the exact payload length of a Size frame.
const sizePayloadLength = 4

// MaxFrameLength is the largest declared length (type byte plus payload)
// the decoder accepts. Terminal reads are a few kilobytes; 16 MB leaves
// room for pathological pastes while bounding memory for a corrupt or
// hostile length prefix.
const MaxFrameLength = 16 * 1024 * 1024

// MaxPayloadLength is the largest payload a single frame can carry.
// Senders split longer Data into several frames.
const MaxPayloadLength = MaxFrameLength - 1

// Frame is one unit of the wire protocol. The concrete types are [Data],
// [Size], [Name], and [Cwd]; the interface is sealed.
type Frame interface {
	// Type returns the wire type byte for this frame.
	Type() Type

	payloadLength() int
	appendPayload(dst []byte) []byte
}

// Data is a chunk of raw terminal I/O.
type Data []byte

// Size is a terminal dimension update. Fields are always set by name so
// that the in-memory order can never drift from the wire order, which is
// Columns first.
type Size struct {
	Columns uint16
	Rows    uint16
}

// Name is the foreground process name of the terminal.
type Name string

// Cwd is the working directory of the terminal's foreground process.
type Cwd string

func (Data) Type() Type { return TypeData }
func (Size) Type() Type { return TypeSize }
func (Name) Type() Type { return TypeName }
func (Cwd) Type() Type  { return TypeCwd }

func (d Data) payloadLength() int { return len(d) }
func (Size) payloadLength() int   { return sizePayloadLength }
func (n Name) payloadLength() int { return len(n) }
func (c Cwd) payloadLength() int  { return len(c) }

func (d Data) appendPayload(dst []byte) []byte { return append(dst, d...) }

func (s Size) appendPayload(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint16(dst, s.Columns)
	return binary.BigEndian.AppendUint16(dst, s.Rows)
}

func (n Name) appendPayload(dst []byte) []byte { return append(dst, n...) }
func (c Cwd) appendPayload(dst []byte) []byte  { return append(dst, c...) }

// EncodedLength returns the number of bytes Encode produces for f.
func EncodedLength(f Frame) int {
	return HeaderLength + f.payloadLength()
}

// Encode returns the wire encoding of f in a newly allocated slice. The
// result is safe to hand to another goroutine: it never aliases f.
func Encode(f Frame) []byte {
	return AppendEncode(make([]byte, 0, EncodedLength(f)), f)
}

// AppendEncode appends the wire encoding of f to dst and returns the
// extended slice.
func AppendEncode(dst []byte, f Frame) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(1+f.payloadLength()))
	dst = append(dst, byte(f.Type()))
	return f.appendPayload(dst)
}
