package cache

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Keyer derives a cache key from the ordered arguments of a call.
//
// Contract:
// - Determinism: same logical arguments must produce the same key within a run.
// - Ordering: argument position is significant unless the keyer says otherwise.
// - Side effects: Key must not mutate args.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(args []any) (string, error)
}

// KeyerFunc adapts a plain function to the Keyer interface.
type KeyerFunc func(args ...any) (string, error)

// Key implements Keyer.
func (f KeyerFunc) Key(args []any) (string, error) {
	return f(args...)
}

// DefaultKeyer derives keys by canonical structural serialization.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key encodes args as a canonical JSON array.
// Maps are written with sorted keys, slices keep their order, so
// (2, 3) and (3, 2) produce different keys.
func (k *DefaultKeyer) Key(args []any) (string, error) {
	canonical, err := canonicalizeSlice(args)
	if err != nil {
		return "", fmt.Errorf("canonicalize arguments: %w", err)
	}
	return string(canonical), nil
}

// canonicalize produces a deterministic JSON representation of v.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		// encoding/json already sorts keys of other map types
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// HashKeyer compacts the keys of another Keyer into a fixed-size digest.
//
// The digest is xxhash64, which is fast but not collision resistant
// against adversarial input. Use it to bound memory held by long keys,
// not to separate untrusted tenants.
type HashKeyer struct {
	next Keyer
}

// NewHashKeyer wraps next. A nil next uses DefaultKeyer.
func NewHashKeyer(next Keyer) *HashKeyer {
	if next == nil {
		next = NewDefaultKeyer()
	}
	return &HashKeyer{next: next}
}

// Key returns 16 lowercase hex characters.
func (k *HashKeyer) Key(args []any) (string, error) {
	raw, err := k.next.Key(args)
	if err != nil {
		return "", err
	}
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], xxhash.Sum64String(raw))
	return hex.EncodeToString(sum[:]), nil
}

var (
	_ Keyer = (*DefaultKeyer)(nil)
	_ Keyer = (*HashKeyer)(nil)
	_ Keyer = KeyerFunc(nil)
)
