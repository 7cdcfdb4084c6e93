package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for cache operations.
var (
	// ErrInvalidConfig is returned by New when an option is out of range.
	ErrInvalidConfig = errors.New("cache: invalid configuration")

	// ErrNilFunc is returned by New when the compute function is nil.
	ErrNilFunc = errors.New("cache: compute function is nil")

	// ErrKeyDerivation is returned by Call when the Keyer fails.
	// The compute function is never invoked in that case.
	ErrKeyDerivation = errors.New("cache: key derivation failed")

	// ErrComputePanic wraps the value recovered from a panicking computation.
	ErrComputePanic = errors.New("cache: computation panicked")
)

// errNilFunc matches both ErrInvalidConfig and ErrNilFunc.
var errNilFunc = fmt.Errorf("%w: %w", ErrInvalidConfig, ErrNilFunc)
