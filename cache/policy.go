package cache

import (
	"fmt"
	"time"
)

// Policy bounds how long and how many results a Cache retains.
//
// The zero Policy keeps every result forever.
type Policy struct {
	// TTL is the maximum age of an entry, measured from when it was stored.
	// Access does not extend it. Zero means entries never expire.
	TTL time.Duration

	// MaxEntries caps the number of stored entries when Bounded is true.
	// Zero with Bounded set means nothing is retained.
	MaxEntries int

	// Bounded enables the MaxEntries cap.
	Bounded bool
}

// Validate reports out-of-range settings as ErrInvalidConfig.
func (p Policy) Validate() error {
	if p.TTL < 0 {
		return fmt.Errorf("%w: ttl must not be negative, got %v", ErrInvalidConfig, p.TTL)
	}
	if p.Bounded && p.MaxEntries < 0 {
		return fmt.Errorf("%w: max entries must not be negative, got %d", ErrInvalidConfig, p.MaxEntries)
	}
	return nil
}

// Expires reports whether entries can age out.
func (p Policy) Expires() bool {
	return p.TTL > 0
}

// Expired reports whether an entry stored at createdAt is stale at now.
// An entry is stale once its age reaches TTL.
func (p Policy) Expired(createdAt, now time.Time) bool {
	return p.TTL > 0 && now.Sub(createdAt) >= p.TTL
}

// Exceeds reports whether n entries is over the capacity bound.
func (p Policy) Exceeds(n int) bool {
	return p.Bounded && n > p.MaxEntries
}
