package store

import "context"

// Tiered combines a fast near store (typically L1) with a slower far store
// (typically L2). Reads check near first, then far. Writes populate both.
type Tiered[K comparable, V any] struct {
	near Store[K, V]
	far  Store[K, V]
}

// NewTiered creates a two-level store.
func NewTiered[K comparable, V any](near, far Store[K, V]) *Tiered[K, V] {
	return &Tiered[K, V]{near: near, far: far}
}

// Get checks near, then far. A far hit is promoted into near.
func (t *Tiered[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	if v, ok, err := t.near.Get(ctx, key); err != nil || ok {
		return v, ok, err
	}
	v, ok, err := t.far.Get(ctx, key)
	if err != nil || !ok {
		var zero V
		return zero, false, err
	}
	_ = t.near.Set(ctx, key, v)
	return v, true, nil
}

// Set writes the value to far, then near. near is written even when far
// fails; the far error is returned.
func (t *Tiered[K, V]) Set(ctx context.Context, key K, val V) error {
	farErr := t.far.Set(ctx, key, val)
	if err := t.near.Set(ctx, key, val); err != nil {
		return err
	}
	return farErr
}

// Delete removes key from both levels.
func (t *Tiered[K, V]) Delete(ctx context.Context, key K) error {
	if err := t.far.Delete(ctx, key); err != nil {
		return err
	}
	return t.near.Delete(ctx, key)
}
