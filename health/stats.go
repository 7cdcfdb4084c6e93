package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/memocache/cache"
)

// StatsSource is anything that exposes cache statistics.
// *cache.Cache satisfies it for every value type.
type StatsSource interface {
	Stats() cache.Stats
}

// StatsCheckerConfig holds the thresholds a StatsChecker applies.
//
// Ratios are in [0, 1]. A zero threshold disables that rule.
type StatsCheckerConfig struct {
	// DegradedFailureRatio marks the cache degraded once
	// Failures / (Hits + Misses + Failures) reaches it.
	DegradedFailureRatio float64

	// UnhealthyFailureRatio marks the cache unhealthy once the failure
	// ratio reaches it.
	UnhealthyFailureRatio float64

	// MinHitRate marks the cache degraded while HitRate is below it.
	MinHitRate float64

	// WarmupLookups is the number of calls to observe before any rule
	// applies. Default: 100
	WarmupLookups uint64
}

// StatsChecker judges a cache by its counters.
type StatsChecker struct {
	name   string
	source StatsSource
	config StatsCheckerConfig
}

// NewStatsChecker creates a checker named name over source.
func NewStatsChecker(name string, source StatsSource, config StatsCheckerConfig) (*StatsChecker, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	for field, v := range map[string]float64{
		"degraded failure ratio":  config.DegradedFailureRatio,
		"unhealthy failure ratio": config.UnhealthyFailureRatio,
		"min hit rate":            config.MinHitRate,
	} {
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrInvalidThreshold, field, v)
		}
	}
	if config.DegradedFailureRatio > 0 && config.UnhealthyFailureRatio > 0 &&
		config.DegradedFailureRatio > config.UnhealthyFailureRatio {
		return nil, fmt.Errorf("%w: degraded failure ratio %v exceeds unhealthy %v",
			ErrInvalidThreshold, config.DegradedFailureRatio, config.UnhealthyFailureRatio)
	}
	if config.WarmupLookups == 0 {
		config.WarmupLookups = 100
	}

	return &StatsChecker{name: name, source: source, config: config}, nil
}

// Name implements Checker.
func (c *StatsChecker) Name() string { return c.name }

// Check implements Checker.
func (c *StatsChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	s := c.source.Stats()
	calls := s.Lookups() + s.Failures

	var failureRatio float64
	if calls > 0 {
		failureRatio = float64(s.Failures) / float64(calls)
	}

	details := map[string]any{
		"hits":          s.Hits,
		"misses":        s.Misses,
		"failures":      s.Failures,
		"evictions":     s.Evictions,
		"coalesced":     s.Coalesced,
		"entries":       s.Entries,
		"hit_rate":      s.HitRate(),
		"failure_ratio": failureRatio,
	}

	if calls < c.config.WarmupLookups {
		return Healthy(fmt.Sprintf("warming up: %d of %d calls", calls, c.config.WarmupLookups)).
			WithDetails(details)
	}

	if t := c.config.UnhealthyFailureRatio; t > 0 && failureRatio >= t {
		return Unhealthy(fmt.Sprintf("failure ratio %.1f%% at or above %.1f%%", failureRatio*100, t*100),
			ErrCheckFailed).WithDetails(details)
	}
	if t := c.config.DegradedFailureRatio; t > 0 && failureRatio >= t {
		return Degraded(fmt.Sprintf("failure ratio %.1f%% at or above %.1f%%", failureRatio*100, t*100)).
			WithDetails(details)
	}
	if t := c.config.MinHitRate; t > 0 && s.HitRate() < t {
		return Degraded(fmt.Sprintf("hit rate %.1f%% below %.1f%%", s.HitRate()*100, t*100)).
			WithDetails(details)
	}

	return Healthy(fmt.Sprintf("hit rate %.1f%%", s.HitRate()*100)).WithDetails(details)
}
