package rawrmemo

import "context"

// Args2 is the key of a two-argument memo.
type Args2[A, B comparable] struct {
	A A `json:"a"`
	B B `json:"b"`
}

// Args3 is the key of a three-argument memo.
type Args3[A, B, C comparable] struct {
	A A `json:"a"`
	B B `json:"b"`
	C C `json:"c"`
}

// Memoize2 memoizes a two-argument function keyed by the ordered pair of
// arguments.
func Memoize2[A, B comparable, V any](fn func(context.Context, A, B) (V, error), opts ...Option) (func(context.Context, A, B) (V, error), error) {
	f, err := Memoize(func(ctx context.Context, k Args2[A, B]) (V, error) {
		return fn(ctx, k.A, k.B)
	}, opts...)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, a A, b B) (V, error) {
		return f.Call(ctx, Args2[A, B]{A: a, B: b})
	}, nil
}

// Memoize3 memoizes a three-argument function keyed by the ordered triple of
// arguments.
func Memoize3[A, B, C comparable, V any](fn func(context.Context, A, B, C) (V, error), opts ...Option) (func(context.Context, A, B, C) (V, error), error) {
	f, err := Memoize(func(ctx context.Context, k Args3[A, B, C]) (V, error) {
		return fn(ctx, k.A, k.B, k.C)
	}, opts...)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, a A, b B, c C) (V, error) {
		return f.Call(ctx, Args3[A, B, C]{A: a, B: b, C: c})
	}, nil
}
