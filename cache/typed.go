package cache

import "context"

// Func0 memoizes a computation without arguments.
func Func0[V any](fn func(context.Context) (V, error), opts ...Option) (func(context.Context) (V, error), *Cache[V], error) {
	if fn == nil {
		return nil, nil, errNilFunc
	}
	c, err := New(func(ctx context.Context, _ ...any) (V, error) {
		return fn(ctx)
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return func(ctx context.Context) (V, error) {
		return c.Call(ctx)
	}, c, nil
}

// Func1 memoizes a one-argument computation behind its own signature.
// The returned Cache exposes stats and administration; Delete on it
// takes the same single argument.
func Func1[A, V any](fn func(context.Context, A) (V, error), opts ...Option) (func(context.Context, A) (V, error), *Cache[V], error) {
	if fn == nil {
		return nil, nil, errNilFunc
	}
	c, err := New(func(ctx context.Context, args ...any) (V, error) {
		return fn(ctx, argAt[A](args, 0))
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return func(ctx context.Context, a A) (V, error) {
		return c.Call(ctx, a)
	}, c, nil
}

// Func2 memoizes a two-argument computation. Argument order is part of the key.
func Func2[A, B, V any](fn func(context.Context, A, B) (V, error), opts ...Option) (func(context.Context, A, B) (V, error), *Cache[V], error) {
	if fn == nil {
		return nil, nil, errNilFunc
	}
	c, err := New(func(ctx context.Context, args ...any) (V, error) {
		return fn(ctx, argAt[A](args, 0), argAt[B](args, 1))
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return func(ctx context.Context, a A, b B) (V, error) {
		return c.Call(ctx, a, b)
	}, c, nil
}

// argAt returns args[i] as T, or the zero T for a nil interface argument.
func argAt[T any](args []any, i int) T {
	v, _ := args[i].(T)
	return v
}
