package store

import (
	"context"
	"sync"
)

// Map is an unbounded in-process store. Entries are never evicted and never
// expire; the map grows for as long as it is referenced.
type Map[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// NewMap creates an empty Map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Get retrieves a value by key.
func (s *Map[K, V]) Get(_ context.Context, key K) (V, bool, error) {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	return v, ok, nil
}

// Set stores val under key.
func (s *Map[K, V]) Set(_ context.Context, key K, val V) error {
	s.mu.Lock()
	s.m[key] = val
	s.mu.Unlock()
	return nil
}

// Delete removes key.
func (s *Map[K, V]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (s *Map[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
