// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrUnknownType reports a frame whose type byte is not one of the
	// known frame types. The frame has been consumed from the buffer, so
	// decoding may continue with the next frame.
	ErrUnknownType = errors.New("unknown frame type")

	// ErrMalformedFrame reports a frame with a valid type but an invalid
	// length for that type (a zero length prefix, or a Size frame whose
	// payload is not 4 bytes). The frame has been consumed from the
	// buffer.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrFrameTooLarge reports a length prefix above MaxFrameLength. The
	// stream cannot be realigned after this error: the decoder stays
	// failed and the connection must be closed.
	ErrFrameTooLarge = errors.New("frame too large")
)

// Decoder reassembles frames from a byte stream that arrives in pieces
// of arbitrary size. The zero value is ready to use.
//
// The decoder keeps only the length of the frame currently being
// assembled; the bytes themselves live in a buffer owned by the caller
// and passed to every Decode call. A Decoder must not be shared between
// goroutines or used with more than one stream.
type Decoder struct {
	// pending is the declared length (type byte plus payload) of the
	// frame being assembled, or zero while waiting for a length prefix.
	// A zero prefix is rejected before it is stored, so zero is never a
	// real pending length.
	pending uint32

	// err is set once the decoder hits an error it cannot recover from.
	err error
}

// Decode extracts the next complete frame from buffer.
//
// It returns (nil, nil) when buffer does not yet hold a whole frame; the
// caller appends more bytes and calls Decode again. Bytes are consumed
// from buffer only in whole validated pieces: the 4-byte length prefix
// once it is available, then the full declared frame. Decode never
// blocks and may be called any number of times as buffer grows.
//
// Errors wrapping ErrUnknownType or ErrMalformedFrame leave buffer
// aligned on the next frame boundary. An error wrapping ErrFrameTooLarge
// is permanent: every later call returns it again.
func (d *Decoder) Decode(buffer *bytes.Buffer) (Frame, error) {
	if d.err != nil {
		return nil, d.err
	}

	if d.pending == 0 {
		if buffer.Len() < prefixLength {
			return nil, nil
		}
		length := binary.BigEndian.Uint32(buffer.Next(prefixLength))
		if length == 0 {
			return nil, fmt.Errorf("%w: zero length prefix", ErrMalformedFrame)
		}
		if length > MaxFrameLength {
			d.err = fmt.Errorf("%w: declared length %d exceeds maximum %d", ErrFrameTooLarge, length, MaxFrameLength)
			return nil, d.err
		}
		d.pending = length
	}

	if uint32(buffer.Len()) < d.pending {
		return nil, nil
	}

	body := buffer.Next(int(d.pending))
	d.pending = 0

	frameType := Type(body[0])
	payload := body[1:]

	switch frameType {
	case TypeData:
		// The buffer reuses its storage, so the payload must be copied
		// before the next read appends to it.
		return Data(bytes.Clone(payload)), nil
	case TypeSize:
		if len(payload) != sizePayloadLength {
			return nil, fmt.Errorf("%w: size payload must be %d bytes, got %d",
				ErrMalformedFrame, sizePayloadLength, len(payload))
		}
		return Size{
			Columns: binary.BigEndian.Uint16(payload[0:2]),
			Rows:    binary.BigEndian.Uint16(payload[2:4]),
		}, nil
	case TypeName:
		return Name(payload), nil
	case TypeCwd:
		return Cwd(payload), nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x (%d payload bytes discarded)", ErrUnknownType, byte(frameType), len(payload))
	}
}

// Pending reports whether the decoder has consumed a length prefix and is
// waiting for the rest of that frame.
func (d *Decoder) Pending() bool {
	return d.pending != 0
}
