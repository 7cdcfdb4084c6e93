package cache

import (
	"math"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// entry is a stored result and its bookkeeping.
type entry[V any] struct {
	key            string
	value          V
	createdAt      time.Time
	lastAccessedAt time.Time
}

// store is the recency-ordered entry index of a Cache.
//
// It is not safe for concurrent use; Cache serializes access.
type store[V any] struct {
	lru    *simplelru.LRU[string, *entry[V]]
	policy Policy
}

func newStore[V any](policy Policy) *store[V] {
	// simplelru needs a positive size. The real bound is enforced in put,
	// which evicts before the list could grow past it.
	size := math.MaxInt
	if policy.Bounded && policy.MaxEntries > 0 {
		size = policy.MaxEntries
	}
	l, err := simplelru.NewLRU[string, *entry[V]](size, nil)
	if err != nil {
		// only returned for size <= 0
		panic(err)
	}
	return &store[V]{lru: l, policy: policy}
}

// get returns the live entry for key and marks it most recently used.
// An entry past its TTL is removed and reported as expired instead.
func (s *store[V]) get(key string, now time.Time) (ent *entry[V], ok, expired bool) {
	ent, ok = s.lru.Peek(key)
	if !ok {
		return nil, false, false
	}
	if s.policy.Expired(ent.createdAt, now) {
		s.lru.Remove(key)
		return nil, false, true
	}

	s.lru.Get(key)
	ent.lastAccessedAt = now
	return ent, true, false
}

// put stores value under key and returns the keys evicted to make room.
// Overwriting an existing key resets both timestamps.
func (s *store[V]) put(key string, value V, now time.Time) []string {
	if ent, ok := s.lru.Get(key); ok {
		ent.value = value
		ent.createdAt = now
		ent.lastAccessedAt = now
		return nil
	}

	var evicted []string
	if s.policy.Bounded {
		if s.policy.MaxEntries == 0 {
			// Nothing is retained: the new entry is evicted on arrival.
			return []string{key}
		}
		for s.policy.Exceeds(s.lru.Len() + 1) {
			k, _, ok := s.lru.RemoveOldest()
			if !ok {
				break
			}
			evicted = append(evicted, k)
		}
	}

	s.lru.Add(key, &entry[V]{
		key:            key,
		value:          value,
		createdAt:      now,
		lastAccessedAt: now,
	})
	return evicted
}

func (s *store[V]) remove(key string) bool {
	return s.lru.Remove(key)
}

func (s *store[V]) purge() {
	s.lru.Purge()
}

func (s *store[V]) len() int {
	return s.lru.Len()
}

// keys returns keys from least to most recently used.
func (s *store[V]) keys() []string {
	return s.lru.Keys()
}
