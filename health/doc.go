// Package health reports whether memoizing caches are serving well.
//
// A Checker turns some observable state into a Result with a Status of
// Healthy, Degraded, or Unhealthy. StatsChecker does this for anything
// exposing cache.Stats: a high share of failed computations marks the
// cache degraded or unhealthy, and a low hit rate after warm-up marks it
// degraded.
//
// # Basic Usage
//
//	users, _ := cache.New(loadUser, cache.WithMaxEntries(10_000))
//
//	chk, err := health.NewStatsChecker("users", users, health.StatsCheckerConfig{
//	    DegradedFailureRatio:  0.05,
//	    UnhealthyFailureRatio: 0.25,
//	    MinHitRate:            0.5,
//	    WarmupLookups:         1000,
//	})
//
// # Registry and HTTP
//
// Register checkers on a Registry and serve them as JSON:
//
//	reg := health.NewRegistry()
//	reg.Register(chk)
//	http.Handle("/health", health.Handler(reg))
//
// The handler answers 503 when any checker is unhealthy and 200 otherwise.
package health
