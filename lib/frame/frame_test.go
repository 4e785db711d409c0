// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"bytes"
	"testing"
)

func TestEncodeWireLayout(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		frame Frame
		want  []byte
	}{
		{
			name:  "data",
			frame: Data("ls\n"),
			want:  []byte{0x00, 0x00, 0x00, 0x04, 0x00, 'l', 's', '\n'},
		},
		{
			name:  "empty data",
			frame: Data(nil),
			want:  []byte{0x00, 0x00, 0x00, 0x01, 0x00},
		},
		{
			name:  "size columns before rows",
			frame: Size{Columns: 123, Rows: 45},
			want:  []byte{0x00, 0x00, 0x00, 0x05, 0x01, 0x00, 123, 0x00, 45},
		},
		{
			name:  "size uses both bytes of each dimension",
			frame: Size{Columns: 0x0102, Rows: 0x0304},
			want:  []byte{0x00, 0x00, 0x00, 0x05, 0x01, 0x01, 0x02, 0x03, 0x04},
		},
		{
			name:  "name",
			frame: Name("vim"),
			want:  []byte{0x00, 0x00, 0x00, 0x04, 0x02, 'v', 'i', 'm'},
		},
		{
			name:  "cwd",
			frame: Cwd("/tmp"),
			want:  []byte{0x00, 0x00, 0x00, 0x05, 0x03, '/', 't', 'm', 'p'},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := Encode(test.frame)
			if !bytes.Equal(got, test.want) {
				t.Errorf("Encode(%#v) = % x, want % x", test.frame, got, test.want)
			}
			if length := EncodedLength(test.frame); length != len(test.want) {
				t.Errorf("EncodedLength = %d, want %d", length, len(test.want))
			}
		})
	}
}

func TestAppendEncodePreservesPrefix(t *testing.T) {
	t.Parallel()
	prefix := []byte("existing")
	got := AppendEncode(append([]byte(nil), prefix...), Name("bash"))
	if !bytes.HasPrefix(got, prefix) {
		t.Fatalf("AppendEncode dropped existing bytes: %q", got)
	}
	if !bytes.Equal(got[len(prefix):], Encode(Name("bash"))) {
		t.Errorf("appended bytes = % x, want % x", got[len(prefix):], Encode(Name("bash")))
	}
}

func TestEncodeDoesNotAliasData(t *testing.T) {
	t.Parallel()
	payload := []byte("hello")
	encoded := Encode(Data(payload))
	payload[0] = 'j'
	if encoded[HeaderLength] != 'h' {
		t.Errorf("encoded frame changed when the source buffer was reused: %q", encoded[HeaderLength:])
	}
}

func TestTypeString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		frameType Type
		want      string
	}{
		{TypeData, "data"},
		{TypeSize, "size"},
		{TypeName, "name"},
		{TypeCwd, "cwd"},
		{Type(0xff), "unknown(0xff)"},
	}
	for _, test := range tests {
		if got := test.frameType.String(); got != test.want {
			t.Errorf("Type(%d).String() = %q, want %q", byte(test.frameType), got, test.want)
		}
	}
}
