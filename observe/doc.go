// Package observe provides the telemetry primitives the memoizing cache
// emits into: a structured logger, OpenTelemetry metrics for lookups,
// computations and evictions, and one span per computation.
//
// It performs no caching itself. Callers build an Observer from Config
// (which also selects exporters) and hand it to cache.WithObserver, or
// wire the Logger, Metrics and Tracer pieces individually.
package observe
