// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package terminal

// Start reports ErrUnsupported outside Linux.
func Start(Options) (*Session, error) {
	return nil, ErrUnsupported
}

func (s *Session) Resize(columns, rows uint16) error { return ErrUnsupported }

func (s *Session) ForegroundProcessName() (string, error) { return "", ErrUnsupported }

func (s *Session) ForegroundWorkingDirectory() (string, error) { return "", ErrUnsupported }
