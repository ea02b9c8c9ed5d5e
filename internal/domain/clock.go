package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package time source used for FetchedAt stamps and the
// default query range. Tests freeze it via SetClock for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time { return clock.Now() }

// CurrentYearRange returns January 1st of the clock's current year and
// today's date, both at midnight UTC. This is the default query period when
// no explicit range is configured.
func CurrentYearRange() (start, end time.Time) {
	now := clock.Now().UTC()
	start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, end
}
