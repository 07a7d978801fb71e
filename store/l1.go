package store

import (
	"context"
	"time"

	"github.com/Keksclan/rawrmemo/keyhash"
	"github.com/dgraph-io/ristretto/v2"
)

// entry keeps the original key next to the value so digest collisions are
// detected on read.
type entry[K comparable, V any] struct {
	key K
	val V
}

// L1 is a bounded in-process store backed by ristretto. Keys are digested
// with keyhash; every entry has a cost of 1.
type L1[K comparable, V any] struct {
	rc  *ristretto.Cache[uint64, entry[K, V]]
	ttl time.Duration
}

// NewL1 creates a new L1 store holding at most maxCost entries. A zero ttl
// means entries are only removed by eviction.
func NewL1[K comparable, V any](maxCost int64, ttl time.Duration) (*L1[K, V], error) {
	rc, err := ristretto.NewCache(&ristretto.Config[uint64, entry[K, V]]{
		NumCounters:        maxCost * 10,
		MaxCost:            maxCost,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &L1[K, V]{rc: rc, ttl: ttl}, nil
}

// Get retrieves a value by key.
func (l *L1[K, V]) Get(_ context.Context, key K) (V, bool, error) {
	e, ok := l.rc.Get(keyhash.Sum64(key))
	if !ok || e.key != key {
		var zero V
		return zero, false, nil
	}
	return e.val, true, nil
}

// Set stores val under key. Ristretto may reject the write under admission
// pressure, in which case the next Get is a miss.
func (l *L1[K, V]) Set(_ context.Context, key K, val V) error {
	l.rc.SetWithTTL(keyhash.Sum64(key), entry[K, V]{key: key, val: val}, 1, l.ttl)
	l.rc.Wait()
	return nil
}

// Delete removes key. An entry stored under the same digest for a different
// key is left alone.
func (l *L1[K, V]) Delete(_ context.Context, key K) error {
	h := keyhash.Sum64(key)
	if e, ok := l.rc.Get(h); ok && e.key == key {
		l.rc.Del(h)
	}
	return nil
}

// Close stops ristretto's background goroutines.
func (l *L1[K, V]) Close() {
	l.rc.Close()
}
