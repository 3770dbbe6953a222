package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock supplies wall-clock time and tickers. Production code uses System;
// tests use Manual so they can move time forward deterministically.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type Ticker = clockwork.Ticker

// System is the real clock.
type System struct{}

var wall = clockwork.NewRealClock()

func (System) Now() time.Time { return wall.Now() }

func (System) NewTicker(d time.Duration) Ticker { return wall.NewTicker(d) }

// Manual only moves when told to. Its tickers fire during Advance, once per
// elapsed period, dropping ticks the reader has not consumed.
type Manual = clockwork.FakeClock

func NewManual(now time.Time) *Manual {
	return clockwork.NewFakeClockAt(now)
}
