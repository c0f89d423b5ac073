package service

import "time"

// Throttle is a minimum-interval guard. It keeps the last-run timestamp and
// answers whether a new run is allowed at a given instant, so it can be
// tested by passing timestamps instead of mocking the wall clock.
type Throttle struct {
	minInterval time.Duration
	lastRun     time.Time
}

func NewThrottle(minInterval time.Duration) *Throttle {
	return &Throttle{
		minInterval: minInterval,
	}
}

// Allow reports whether a run may start at `now` and, if so, records it as
// the new last run.
func (t *Throttle) Allow(now time.Time) bool {
	if !t.lastRun.IsZero() && now.Sub(t.lastRun) < t.minInterval {
		return false
	}
	t.lastRun = now
	return true
}

func (t *Throttle) LastRun() time.Time {
	return t.lastRun
}

func (t *Throttle) Reset() {
	t.lastRun = time.Time{}
}
