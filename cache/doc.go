// Package cache memoizes deterministic computations.
//
// A Cache wraps a Func, derives a key from each call's arguments, and
// serves repeated calls from stored results instead of recomputing.
// Retention is bounded by a TTL measured from when a result was stored
// and by an optional entry cap with least-recently-used eviction.
// Expiry is checked lazily on lookup; no goroutine sweeps the cache.
//
// Concurrent misses on the same key are coalesced into one computation.
// Failed computations are returned unchanged and never cached.
//
//	fib, err := cache.New(func(ctx context.Context, args ...any) (int, error) {
//	    return slowFib(args[0].(int)), nil
//	}, cache.WithMaxEntries(1000), cache.WithTTL(time.Minute))
//
//	v, err := fib.Call(ctx, 40)
//	fmt.Println(fib.Stats().HitRate())
//
// Func0, Func1, and Func2 give the same behavior behind a typed signature.
package cache
