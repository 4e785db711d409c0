// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial. Time only moves when Advance
// is called.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{current: initial}
	clock.tickersChanged = sync.NewCond(&clock.mu)
	return clock
}

// FakeClock is a deterministic Clock for tests. It is safe for
// concurrent use.
type FakeClock struct {
	mu             sync.Mutex
	current        time.Time
	tickers        []*fakeTicker
	timers         []*fakeTimer
	tickersChanged *sync.Cond
}

type fakeTimer struct {
	at      time.Time
	channel chan time.Time
}

type fakeTicker struct {
	next     time.Time
	interval time.Duration
	channel  chan time.Time
	stopped  bool
}

// After returns a channel that receives the fake time once the clock
// has been advanced by at least d. A non-positive d fires immediately.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}
	c.timers = append(c.timers, &fakeTimer{at: c.current.Add(d), channel: channel})
	c.tickersChanged.Broadcast()
	return channel
}

// NewTicker registers a ticker whose first tick is due d after the
// current fake time.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ticker := &fakeTicker{
		next:     c.current.Add(d),
		interval: d,
		channel:  make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, ticker)
	c.tickersChanged.Broadcast()

	return &Ticker{
		C: ticker.channel,
		stopFunc: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			ticker.stopped = true
			c.tickersChanged.Broadcast()
		},
	}
}

// Advance moves the clock forward by d and delivers every tick and After
// timer that falls due, in deadline order. Sends are non-blocking: a tick is
// dropped if the ticker's channel already holds one, matching
// time.Ticker.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)

	type due struct {
		at      time.Time
		channel chan time.Time
	}
	var fire []due
	for _, ticker := range c.tickers {
		if ticker.stopped {
			continue
		}
		for !ticker.next.After(c.current) {
			fire = append(fire, due{at: ticker.next, channel: ticker.channel})
			ticker.next = ticker.next.Add(ticker.interval)
		}
	}
	pending := c.timers[:0]
	for _, timer := range c.timers {
		if timer.at.After(c.current) {
			pending = append(pending, timer)
			continue
		}
		fire = append(fire, due{at: timer.at, channel: timer.channel})
	}
	clear(c.timers[len(pending):])
	c.timers = pending
	sort.SliceStable(fire, func(i, j int) bool { return fire[i].at.Before(fire[j].at) })

	for _, tick := range fire {
		select {
		case tick.channel <- c.current:
		default:
		}
	}
}

// WaitForTimers blocks until at least n tickers are registered and not
// stopped. Timers from After are not counted; see WaitForAfter.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.activeLocked() < n {
		c.tickersChanged.Wait()
	}
}

// WaitForAfter blocks until at least n channels returned by After are
// still waiting to fire.
func (c *FakeClock) WaitForAfter(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.timers) < n {
		c.tickersChanged.Wait()
	}
}

// ActiveTickers returns the number of registered, unstopped tickers.
func (c *FakeClock) ActiveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *FakeClock) activeLocked() int {
	count := 0
	for _, ticker := range c.tickers {
		if !ticker.stopped {
			count++
		}
	}
	return count
}
