package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Lookup is the outcome of a cache lookup.
type Lookup string

const (
	// LookupHit means a live entry served the call.
	LookupHit Lookup = "hit"
	// LookupMiss means the call ran the wrapped computation.
	LookupMiss Lookup = "miss"
	// LookupCoalesced means the call waited on another caller's computation.
	LookupCoalesced Lookup = "coalesced"
)

// EvictReason says why an entry left the cache without being deleted.
type EvictReason string

const (
	// EvictCapacity means the entry was the least recently used at capacity.
	EvictCapacity EvictReason = "capacity"
	// EvictExpired means the entry outlived its TTL.
	EvictExpired EvictReason = "expired"
)

// Metrics records cache activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly and never block the caller.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup counts one call by outcome.
	RecordLookup(ctx context.Context, meta Meta, outcome Lookup)

	// RecordCompute records one run of the wrapped computation.
	RecordCompute(ctx context.Context, meta Meta, duration time.Duration, err error)

	// RecordEviction counts one entry removed by policy.
	RecordEviction(ctx context.Context, meta Meta, reason EvictReason)
}

type metricsImpl struct {
	hits         metric.Int64Counter
	misses       metric.Int64Counter
	coalesced    metric.Int64Counter
	evictions    metric.Int64Counter
	computeTotal metric.Int64Counter
	computeErrs  metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates Metrics whose instruments live on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	m, err := newMetrics(meter)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	m := &metricsImpl{}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.hits, "memo.lookup.hits", "Calls served from a live cache entry", "{call}"},
		{&m.misses, "memo.lookup.misses", "Calls that found no live entry and returned a computed value", "{call}"},
		{&m.coalesced, "memo.lookup.coalesced", "Calls that shared another caller's computation", "{call}"},
		{&m.evictions, "memo.evictions", "Entries removed by TTL or capacity", "{entry}"},
		{&m.computeTotal, "memo.compute.total", "Total runs of the wrapped computation", "{call}"},
		{&m.computeErrs, "memo.compute.errors", "Runs of the wrapped computation that failed", "{error}"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name,
			metric.WithDescription(c.desc),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return nil, err
		}
	}

	m.durationHist, err = meter.Float64Histogram(
		"memo.compute.duration_ms",
		metric.WithDescription("Wrapped computation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordLookup increments the counter matching outcome.
func (m *metricsImpl) RecordLookup(ctx context.Context, meta Meta, outcome Lookup) {
	opt := metric.WithAttributes(meta.attributes()...)
	switch outcome {
	case LookupHit:
		m.hits.Add(ctx, 1, opt)
	case LookupMiss:
		m.misses.Add(ctx, 1, opt)
	case LookupCoalesced:
		m.coalesced.Add(ctx, 1, opt)
	}
}

// RecordCompute records totals, failures and duration of one computation.
func (m *metricsImpl) RecordCompute(ctx context.Context, meta Meta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.computeTotal.Add(ctx, 1, opt)
	if err != nil {
		m.computeErrs.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordEviction increments memo.evictions tagged with the reason.
func (m *metricsImpl) RecordEviction(ctx context.Context, meta Meta, reason EvictReason) {
	attrs := append(meta.attributes(), attribute.String("memo.evict.reason", string(reason)))
	m.evictions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

type noopMetrics struct{}

// NewNoopMetrics returns Metrics that records nothing.
func NewNoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordLookup(context.Context, Meta, Lookup)                {}
func (noopMetrics) RecordCompute(context.Context, Meta, time.Duration, error) {}
func (noopMetrics) RecordEviction(context.Context, Meta, EvictReason)         {}
