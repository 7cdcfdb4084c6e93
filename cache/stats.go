package cache

// Stats is a point-in-time snapshot of cache activity.
//
// Counters only grow until Clear resets them together with the entries.
type Stats struct {
	// Hits counts calls served from a live entry.
	Hits uint64
	// Misses counts calls that found no live entry and returned a freshly
	// computed value, including calls that waited on another caller's
	// computation (see Coalesced). The memo.lookup.misses metric counts
	// the same calls.
	//
	// A computation is counted once when it completes, even if the caller
	// that started it stopped waiting and got ctx.Err(). Misses minus
	// Coalesced is therefore the number of successful computations.
	Misses uint64
	// Evictions counts entries removed by TTL expiry or capacity pressure.
	// Explicit Delete and Clear are not evictions.
	Evictions uint64
	// Expirations is the part of Evictions caused by TTL expiry.
	Expirations uint64
	// Failures counts calls that returned an error from the wrapped
	// computation, including coalesced callers that shared the failure.
	// Failed calls are neither hits nor misses.
	Failures uint64
	// Coalesced counts misses that shared an in-flight computation
	// instead of running their own.
	Coalesced uint64
	// Entries is the number of entries currently stored.
	Entries int
}

// Lookups returns Hits + Misses.
func (s Stats) Lookups() uint64 {
	return s.Hits + s.Misses
}

// HitRate returns Hits / (Hits + Misses), or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Lookups()
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// statsCollector holds the live counters. Cache guards it with its mutex.
type statsCollector struct {
	hits, misses, evictions, expirations, failures, coalesced uint64
}

func (c *statsCollector) recordHit()     { c.hits++ }
func (c *statsCollector) recordMiss()    { c.misses++ }
func (c *statsCollector) recordFailure() { c.failures++ }

func (c *statsCollector) recordEviction(expired bool) {
	c.evictions++
	if expired {
		c.expirations++
	}
}

func (c *statsCollector) recordCoalesced() {
	c.misses++
	c.coalesced++
}

func (c *statsCollector) reset() {
	*c = statsCollector{}
}

func (c *statsCollector) snapshot(entries int) Stats {
	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
		Failures:    c.failures,
		Coalesced:   c.coalesced,
		Entries:     entries,
	}
}
