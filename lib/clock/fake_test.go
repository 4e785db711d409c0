// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeTickerFiresOnAdvance(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	ticker := fake.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	fake.Advance(100 * time.Millisecond)
	select {
	case <-ticker.C:
		t.Fatal("ticker fired before its interval elapsed")
	default:
	}

	fake.Advance(100 * time.Millisecond)
	select {
	case at := <-ticker.C:
		if want := epoch.Add(200 * time.Millisecond); !at.Equal(want) {
			t.Errorf("tick time = %v, want %v", at, want)
		}
	default:
		t.Fatal("ticker did not fire after its interval")
	}
}

func TestFakeTickerDropsTicksWhenFull(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	fake.Advance(5 * time.Second)

	<-ticker.C
	select {
	case <-ticker.C:
		t.Fatal("ticker queued more than one tick")
	default:
	}
}

func TestFakeTickerStop(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	ticker := fake.NewTicker(time.Second)
	if got := fake.ActiveTickers(); got != 1 {
		t.Fatalf("ActiveTickers = %d, want 1", got)
	}

	ticker.Stop()
	fake.Advance(2 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
	if got := fake.ActiveTickers(); got != 0 {
		t.Errorf("ActiveTickers after Stop = %d, want 0", got)
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	registered := make(chan struct{})
	go func() {
		fake.WaitForTimers(2)
		close(registered)
	}()

	first := fake.NewTicker(time.Second)
	defer first.Stop()
	select {
	case <-registered:
		t.Fatal("WaitForTimers returned with only one ticker registered")
	default:
	}

	second := fake.NewTicker(time.Second)
	defer second.Stop()
	<-registered
}

func TestFakeAfterFiresOnce(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	fired := fake.After(time.Second)

	fake.Advance(999 * time.Millisecond)
	select {
	case <-fired:
		t.Fatal("After fired before its duration elapsed")
	default:
	}

	fake.Advance(time.Millisecond)
	select {
	case at := <-fired:
		if want := epoch.Add(time.Second); !at.Equal(want) {
			t.Errorf("After time = %v, want %v", at, want)
		}
	default:
		t.Fatal("After did not fire once its duration elapsed")
	}

	fake.Advance(time.Hour)
	select {
	case <-fired:
		t.Fatal("After fired a second time")
	default:
	}
}

func TestFakeAfterNonPositiveFiresImmediately(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeWaitForAfter(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	registered := make(chan struct{})
	go func() {
		fake.WaitForAfter(1)
		close(registered)
	}()

	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()
	select {
	case <-registered:
		t.Fatal("WaitForAfter counted a ticker")
	default:
	}

	fired := fake.After(time.Second)
	<-registered

	fake.Advance(time.Second)
	<-fired
}
