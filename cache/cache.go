package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/memocache/observe"
)

// Func is the computation a Cache memoizes. It must be deterministic in
// its arguments for cached results to be meaningful.
type Func[V any] func(ctx context.Context, args ...any) (V, error)

// Result is the outcome of an asynchronous call.
type Result[V any] struct {
	Value V
	Err   error
}

// Cache memoizes a Func, bounded by TTL and entry count.
//
// Contract:
//   - Concurrency: all methods are safe for concurrent use. Entries and
//     counters change under one mutex, so every caller sees a single
//     total order of lookups, insertions, and evictions.
//   - Coalescing: concurrent misses on the same key share one computation.
//     Computations for different keys never wait on each other.
//   - Errors: failed computations are returned unchanged and never stored.
type Cache[V any] struct {
	fn     Func[V]
	keyer  Keyer
	clock  Clock
	policy Policy
	meta   observe.Meta

	mw      *observe.Middleware
	metrics observe.Metrics
	logger  observe.Logger

	mu         sync.Mutex
	store      *store[V]
	stats      statsCollector
	generation uint64

	flights singleflight.Group
}

// New wraps fn in a cache configured by opts.
// Invalid configuration is reported here, never at call time.
func New[V any](fn Func[V], opts ...Option) (*Cache[V], error) {
	if fn == nil {
		return nil, errNilFunc
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mw, err := cfg.middleware()
	if err != nil {
		return nil, err
	}

	return &Cache[V]{
		fn:      fn,
		keyer:   cfg.keyer,
		clock:   cfg.clock,
		policy:  cfg.policy,
		meta:    cfg.meta,
		mw:      mw,
		metrics: mw.Metrics(),
		logger:  mw.Logger().With(cfg.meta),
		store:   newStore[V](cfg.policy),
	}, nil
}

// Call returns the cached result for args, computing and storing it on a miss.
//
// If ctx is done while the call waits on a computation, Call returns
// ctx.Err(). The computation itself runs detached from ctx cancellation
// and its result is still stored when it succeeds.
func (c *Cache[V]) Call(ctx context.Context, args ...any) (V, error) {
	key, err := c.deriveKey(args)
	if err != nil {
		var zero V
		return zero, err
	}
	return c.call(ctx, key, args)
}

// CallAsync is Call on its own goroutine. The key is derived before
// CallAsync returns, so a KeyDerivationError arrives without any work
// being started. args must not be mutated until the result is received.
func (c *Cache[V]) CallAsync(ctx context.Context, args ...any) <-chan Result[V] {
	out := make(chan Result[V], 1)

	key, err := c.deriveKey(args)
	if err != nil {
		out <- Result[V]{Err: err}
		close(out)
		return out
	}

	go func() {
		defer close(out)
		v, err := c.call(ctx, key, args)
		out <- Result[V]{Value: v, Err: err}
	}()
	return out
}

func (c *Cache[V]) call(ctx context.Context, key string, args []any) (V, error) {
	var zero V

	v, gen, ok := c.lookup(ctx, key)
	if ok {
		return v, nil
	}

	// The generation is part of the flight key so that calls made after
	// Clear never join a computation whose result will be discarded.
	flightKey := strconv.FormatUint(gen, 10) + ":" + key
	flightCtx := context.WithoutCancel(ctx)

	var leader, reused bool
	ch := c.flights.DoChan(flightKey, func() (any, error) {
		leader = true
		// Another flight for this key may have stored its result between
		// our lookup and this flight starting.
		if v, ok := c.recheck(flightCtx, key, gen); ok {
			reused = true
			return v, nil
		}
		return c.compute(flightCtx, key, gen, args)
	})

	select {
	case res := <-ch:
		if !leader || reused {
			c.recordShared(ctx, res.Err)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// lookup consults the store and records the hit or the expiry it finds.
func (c *Cache[V]) lookup(ctx context.Context, key string) (v V, gen uint64, ok bool) {
	now := c.clock.Now()

	c.mu.Lock()
	ent, ok, expired := c.store.get(key, now)
	if expired {
		c.stats.recordEviction(true)
	}
	if ok {
		c.stats.recordHit()
		v = ent.value
	}
	gen = c.generation
	c.mu.Unlock()

	if expired {
		c.metrics.RecordEviction(ctx, c.meta, observe.EvictExpired)
		c.logger.Debug(ctx, "entry expired", observe.Field{Key: "key", Value: key})
	}
	if ok {
		c.metrics.RecordLookup(ctx, c.meta, observe.LookupHit)
	}
	return v, gen, ok
}

// recheck returns a live entry stored for key in generation gen since
// the caller's lookup. It records an expiry it finds but never a hit.
func (c *Cache[V]) recheck(ctx context.Context, key string, gen uint64) (v V, ok bool) {
	now := c.clock.Now()

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return v, false
	}
	ent, ok, expired := c.store.get(key, now)
	if expired {
		c.stats.recordEviction(true)
	}
	if ok {
		v = ent.value
	}
	c.mu.Unlock()

	if expired {
		c.metrics.RecordEviction(ctx, c.meta, observe.EvictExpired)
		c.logger.Debug(ctx, "entry expired", observe.Field{Key: "key", Value: key})
	}
	return v, ok
}

// compute runs the wrapped function once for a flight and stores a
// successful result, unless the cache was cleared since gen.
func (c *Cache[V]) compute(ctx context.Context, key string, gen uint64, args []any) (V, error) {
	var v V
	err := c.mw.Run(ctx, c.meta, func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrComputePanic, r)
			}
		}()
		v, err = c.fn(ctx, args...)
		return err
	})
	if err != nil {
		c.mu.Lock()
		c.stats.recordFailure()
		c.mu.Unlock()
		return v, err
	}

	now := c.clock.Now()

	c.mu.Lock()
	if gen != c.generation {
		c.stats.recordMiss()
		c.mu.Unlock()
		c.metrics.RecordLookup(ctx, c.meta, observe.LookupMiss)
		c.logger.Debug(ctx, "discarding result computed before clear", observe.Field{Key: "key", Value: key})
		return v, nil
	}
	evicted := c.store.put(key, v, now)
	for range evicted {
		c.stats.recordEviction(false)
	}
	c.stats.recordMiss()
	c.mu.Unlock()

	c.metrics.RecordLookup(ctx, c.meta, observe.LookupMiss)
	for _, k := range evicted {
		c.metrics.RecordEviction(ctx, c.meta, observe.EvictCapacity)
		c.logger.Debug(ctx, "entry evicted", observe.Field{Key: "key", Value: k})
	}
	return v, nil
}

// recordShared counts a caller that received another caller's result.
// It is a miss in both Stats and metrics, and also counted as coalesced.
func (c *Cache[V]) recordShared(ctx context.Context, err error) {
	c.mu.Lock()
	if err != nil {
		c.stats.recordFailure()
	} else {
		c.stats.recordCoalesced()
	}
	c.mu.Unlock()

	if err == nil {
		c.metrics.RecordLookup(ctx, c.meta, observe.LookupMiss)
		c.metrics.RecordLookup(ctx, c.meta, observe.LookupCoalesced)
	}
}

func (c *Cache[V]) deriveKey(args []any) (key string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrKeyDerivation, r)
		}
	}()

	key, err = c.keyer.Key(args)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrKeyDerivation, err)
	}
	return key, nil
}

// Delete removes the entry that a call with args would use.
// It reports whether an entry was present. A computation already in
// flight for the same key still stores its result when it finishes.
func (c *Cache[V]) Delete(args ...any) (bool, error) {
	key, err := c.deriveKey(args)
	if err != nil {
		return false, err
	}
	return c.DeleteKey(key), nil
}

// DeleteKey removes the entry stored under an already derived key.
func (c *Cache[V]) DeleteKey(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.remove(key)
}

// Clear removes every entry and resets all counters in one step.
// Computations in flight at the time of Clear return their results to
// their callers but do not store them.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.store.purge()
	c.stats.reset()
	c.generation++
	c.mu.Unlock()
}

// Stats returns a snapshot of the counters and current size.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats.snapshot(c.store.len())
}

// Len returns the number of stored entries, expired ones included until
// a lookup discovers them.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.len()
}

// Keys returns stored keys from least to most recently used.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.keys()
}

// Policy returns the retention policy the cache was built with.
func (c *Cache[V]) Policy() Policy {
	return c.policy
}

// Meta returns the telemetry identity of the cache.
func (c *Cache[V]) Meta() observe.Meta {
	return c.meta
}
