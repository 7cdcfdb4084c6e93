package cache

import "time"

// Clock supplies the current time for TTL bookkeeping.
//
// Expiry is measured with Time.Sub, so clocks that return values carrying
// a monotonic reading (time.Now does) are immune to wall-clock jumps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
