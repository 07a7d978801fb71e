// Package store provides the backing stores used by memoized functions: an
// unbounded map (the default), a bounded in-process L1 backed by ristretto, a
// Redis-backed L2 and a tiered combination of the two.
package store

import "context"

// Store holds memoized results keyed by the exact argument value.
type Store[K comparable, V any] interface {
	// Get retrieves a value by key. The boolean indicates a hit.
	Get(ctx context.Context, key K) (V, bool, error)

	// Set stores val under key, replacing any previous value.
	Set(ctx context.Context, key K, val V) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key K) error
}

// Sizer is implemented by stores that can report how many entries they hold.
type Sizer interface {
	Len() int
}
