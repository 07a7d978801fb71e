package rawrmemo

import (
	"cmp"
	"sync"
)

// Fresh caches one value for the object that embeds it and recomputes it
// only when the object's modification time has strictly increased since the
// last successful computation. The zero value is ready to use. A Fresh must
// not be copied after first use.
//
// Decreasing or unchanged times return the cached value. Arguments the
// computation closes over are not part of the cache key.
type Fresh[T cmp.Ordered, V any] struct {
	mu    sync.Mutex
	set   bool
	stamp T
	value V
}

// Get returns the cached value if one was computed at a time ≥ t, otherwise
// it runs compute, records (t, value) and returns the value. A compute error
// is returned unchanged and leaves the cache untouched.
//
// compute runs without the lock held; concurrent callers that all see a
// stale cache may each run it. A slower computation for an older time never
// replaces a newer one.
func (f *Fresh[T, V]) Get(t T, compute func() (V, error)) (V, error) {
	f.mu.Lock()
	if f.set && cmp.Compare(t, f.stamp) <= 0 {
		v := f.value
		f.mu.Unlock()
		return v, nil
	}
	f.mu.Unlock()

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	f.mu.Lock()
	if !f.set || cmp.Compare(t, f.stamp) >= 0 {
		f.set, f.stamp, f.value = true, t, v
	}
	f.mu.Unlock()
	return v, nil
}

// Peek returns the cached value and the time it was computed at. ok is false
// if nothing has been computed yet.
func (f *Fresh[T, V]) Peek() (value V, stamp T, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.stamp, f.set
}

// Reset drops the cached value so the next Get recomputes regardless of time.
func (f *Fresh[T, V]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zeroT T
	var zeroV V
	f.set, f.stamp, f.value = false, zeroT, zeroV
}

// Tracked is an object that carries a modification time and owns the Fresh
// cache for one of its computations.
type Tracked[T cmp.Ordered, V any] interface {
	ModificationTime() T
	FreshCache() *Fresh[T, V]
}

// UntilOutdated wraps m so it only runs when r's modification time has
// strictly increased since the last successful run on r. Each receiver keeps
// its own cache, so distinct objects never share results.
//
//	type File struct {
//		mtime int64
//		info  rawrmemo.Fresh[int64, Info]
//	}
//
//	func (f *File) ModificationTime() int64 { return f.mtime }
//	func (f *File) FreshCache() *rawrmemo.Fresh[int64, Info] { return &f.info }
//
//	var loadInfo = rawrmemo.UntilOutdated[*File, int64, Info](readInfo)
func UntilOutdated[R Tracked[T, V], T cmp.Ordered, V any](m func(R) (V, error)) func(R) (V, error) {
	return func(r R) (V, error) {
		return r.FreshCache().Get(r.ModificationTime(), func() (V, error) {
			return m(r)
		})
	}
}
