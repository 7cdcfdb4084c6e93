package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFunc0(t *testing.T) {
	var calls int
	get, c, err := Func0(func(context.Context) (string, error) {
		calls++
		return "config", nil
	}, WithTTL(time.Minute))
	if err != nil {
		t.Fatalf("Func0() error = %v", err)
	}

	for range 3 {
		v, err := get(context.Background())
		if err != nil || v != "config" {
			t.Fatalf("get() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute calls = %d, want 1", calls)
	}
	if c.Stats().Hits != 2 {
		t.Errorf("Hits = %d, want 2", c.Stats().Hits)
	}
}

func TestFunc1(t *testing.T) {
	var calls int
	upper, c, err := Func1(func(_ context.Context, s string) (string, error) {
		calls++
		return strings.ToUpper(s), nil
	}, WithMaxEntries(2))
	if err != nil {
		t.Fatalf("Func1() error = %v", err)
	}

	for _, s := range []string{"a", "b", "a"} {
		v, err := upper(context.Background(), s)
		if err != nil || v != strings.ToUpper(s) {
			t.Fatalf("upper(%q) = %q, %v", s, v, err)
		}
	}
	if calls != 2 {
		t.Errorf("compute calls = %d, want 2", calls)
	}

	if removed, err := c.Delete("a"); err != nil || !removed {
		t.Errorf("Delete(a) = %v, %v, want true", removed, err)
	}
}

func TestFunc1_PointerArgument(t *testing.T) {
	type req struct{ ID int }
	var got *req
	fn, _, err := Func1(func(_ context.Context, r *req) (int, error) {
		got = r
		if r == nil {
			return -1, nil
		}
		return r.ID, nil
	})
	if err != nil {
		t.Fatalf("Func1() error = %v", err)
	}

	if v, _ := fn(context.Background(), nil); v != -1 || got != nil {
		t.Errorf("fn(nil) = %d, received %v", v, got)
	}
	if v, _ := fn(context.Background(), &req{ID: 9}); v != 9 {
		t.Errorf("fn(&req{9}) = %d, want 9", v)
	}
}

func TestFunc2(t *testing.T) {
	var calls int
	pow, c, err := Func2(func(_ context.Context, base, exp int) (int, error) {
		calls++
		result := 1
		for range exp {
			result *= base
		}
		return result, nil
	})
	if err != nil {
		t.Fatalf("Func2() error = %v", err)
	}

	ctx := context.Background()
	a, _ := pow(ctx, 2, 3)
	b, _ := pow(ctx, 3, 2)
	again, _ := pow(ctx, 2, 3)

	if a != 8 || b != 9 || again != 8 {
		t.Errorf("results = %d, %d, %d, want 8, 9, 8", a, b, again)
	}
	if calls != 2 {
		t.Errorf("compute calls = %d, want 2", calls)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestTypedWrappers_Errors(t *testing.T) {
	if _, _, err := Func0[int](nil); !errors.Is(err, ErrNilFunc) {
		t.Errorf("Func0(nil) error = %v, want ErrNilFunc", err)
	}
	if _, _, err := Func1[int, int](nil); !errors.Is(err, ErrNilFunc) {
		t.Errorf("Func1(nil) error = %v, want ErrNilFunc", err)
	}
	if _, _, err := Func2[int, int, int](nil); !errors.Is(err, ErrNilFunc) {
		t.Errorf("Func2(nil) error = %v, want ErrNilFunc", err)
	}

	_, _, err := Func1(func(context.Context, int) (int, error) { return 0, nil }, WithTTL(-1))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Func1 with bad option error = %v, want ErrInvalidConfig", err)
	}
}
