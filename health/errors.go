package health

import "errors"

var (
	// ErrCheckFailed marks a result that crossed an unhealthy threshold.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a health check did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates no checker is registered under a name.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrInvalidThreshold is returned for thresholds outside [0, 1] or
	// a degraded threshold above the unhealthy one.
	ErrInvalidThreshold = errors.New("health: invalid threshold")

	// ErrNilSource is returned when a StatsChecker has nothing to observe.
	ErrNilSource = errors.New("health: stats source is nil")
)
