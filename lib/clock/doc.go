// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the time source used by the bridge's polling
// loops and its shutdown flush timeout, so that tests can drive time
// deterministically instead of sleeping.
//
// Production code uses [Real]. Tests use [Fake] and step time forward
// explicitly:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	b := &bridge.Bridge{Clock: fake, PollInterval: 200 * time.Millisecond}
//	// ... start b.Run in a goroutine ...
//	fake.WaitForTimers(2)                 // both pollers hold a ticker
//	fake.Advance(200 * time.Millisecond)  // one poll tick each
//
// WaitForTimers closes the race between a goroutine registering a ticker
// and the test advancing the clock past it.
package clock
