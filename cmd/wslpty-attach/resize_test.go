// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wslpty/wslpty/lib/clock"
	"github.com/wslpty/wslpty/lib/testutil"
)

const testTimeout = 5 * time.Second

// scriptedSize is a terminal size source the test changes between ticks.
// Every sample is reported on sampled.
type scriptedSize struct {
	mu      sync.Mutex
	columns int
	rows    int
	err     error
	sampled chan struct{}
}

func (s *scriptedSize) set(columns, rows int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns, s.rows, s.err = columns, rows, err
}

func (s *scriptedSize) size() (int, int, error) {
	s.mu.Lock()
	columns, rows, err := s.columns, s.rows, s.err
	s.mu.Unlock()
	s.sampled <- struct{}{}
	return columns, rows, err
}

func TestPollResize(t *testing.T) {
	t.Parallel()
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	source := &scriptedSize{columns: 80, rows: 24, sampled: make(chan struct{}, 16)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resized := pollResize(ctx, fake, time.Second, source.size)
	testutil.RequireReceive(t, source.sampled, testTimeout, "waiting for the initial sample")

	// step advances one interval and waits for the resulting sample. Two
	// steps in a row guarantee the first step's notification, if any, has
	// been sent.
	step := func() {
		t.Helper()
		fake.Advance(time.Second)
		testutil.RequireReceive(t, source.sampled, testTimeout, "waiting for a size sample")
	}
	requireQuiet := func(description string) {
		t.Helper()
		select {
		case <-resized:
			t.Fatalf("unexpected resize notification: %s", description)
		default:
		}
	}

	step()
	step()
	requireQuiet("size unchanged")

	source.set(100, 30, nil)
	step()
	testutil.RequireReceive(t, resized, testTimeout, "waiting for notification of 100x30")

	source.set(0, 0, errors.New("console gone"))
	step()
	source.set(100, 30, nil)
	step()
	step()
	requireQuiet("failed sample followed by the previous size")

	source.set(100, 31, nil)
	step()
	testutil.RequireReceive(t, resized, testTimeout, "waiting for notification of 100x31")

	cancel()
	deadline := time.Now().Add(testTimeout)
	for fake.ActiveTickers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("resize ticker still running after cancellation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
