// Package rawrmemo provides two memoization primitives:
//
//   - [Func], an argument-keyed cache that wraps a deterministic function and
//     stores one result per distinct argument value;
//   - [Fresh], a freshness-gated cache embedded in an object that recomputes
//     only when the object's modification time strictly increases.
//
// A memo built with no options keeps every result for as long as the memo is
// referenced. Bounded (ristretto) and shared (Redis) stores are opt-in:
//
//	thumb, err := rawrmemo.Memoize(renderThumbnail,
//		rawrmemo.WithName("thumbnails"),
//		rawrmemo.WithCacheL1(10_000),
//	)
//	img, err := thumb.Call(ctx, path)
package rawrmemo

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/Keksclan/rawrmemo/keyhash"
	"github.com/Keksclan/rawrmemo/metrics"
	"github.com/Keksclan/rawrmemo/retry"
	"github.com/Keksclan/rawrmemo/store"
	"github.com/Keksclan/rawrmemo/tracing"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Func memoizes fn by its exact argument. It is safe for concurrent use.
//
// Errors returned by fn are passed to the caller unchanged and are never
// stored, so the next call with the same key runs fn again.
type Func[K comparable, V any] struct {
	fn    func(context.Context, K) (V, error)
	store store.Store[K, V]
	cfg   config
	log   zerolog.Logger

	// checkKey is set when K can hold values that panic as map keys.
	checkKey bool

	mu    sync.Mutex
	loads map[K]*call[V]
}

// call deduplicates concurrent loads for the same key.
type call[V any] struct {
	wg  sync.WaitGroup
	val V
	err error
}

// Memoize wraps fn in a [Func] whose store is chosen by opts. It fails only
// when the configured store cannot be created.
func Memoize[K comparable, V any](fn func(context.Context, K) (V, error), opts ...Option) (*Func[K, V], error) {
	cfg := newConfig(opts)
	s, err := buildStore[K, V](cfg)
	if err != nil {
		return nil, fmt.Errorf("rawrmemo: %s: build store: %w", cfg.name, err)
	}
	return newFunc(fn, s, cfg), nil
}

// MemoizeWithStore wraps fn in a [Func] backed by s. Store options in opts
// (WithCacheL1, WithCacheL2, WithTTL) are ignored.
func MemoizeWithStore[K comparable, V any](fn func(context.Context, K) (V, error), s store.Store[K, V], opts ...Option) *Func[K, V] {
	return newFunc(fn, s, newConfig(opts))
}

func newFunc[K comparable, V any](fn func(context.Context, K) (V, error), s store.Store[K, V], cfg config) *Func[K, V] {
	return &Func[K, V]{
		fn:       fn,
		store:    s,
		cfg:      cfg,
		log:      cfg.logger.With().Str("memo", cfg.name).Logger(),
		checkKey: keyhash.NeedsCheck[K](),
		loads:    make(map[K]*call[V]),
	}
}

// Pure memoizes an infallible function over an unbounded in-process store.
// Like a Go map it panics if called with an unhashable key.
func Pure[K comparable, V any](fn func(K) V) func(K) V {
	f := MemoizeWithStore(func(_ context.Context, k K) (V, error) {
		return fn(k), nil
	}, store.NewMap[K, V]())
	return func(k K) V {
		v, err := f.Call(context.Background(), k)
		if err != nil {
			panic(err)
		}
		return v
	}
}

// Call returns the stored result for key, computing and storing it first if
// there is none.
func (f *Func[K, V]) Call(ctx context.Context, key K) (V, error) {
	var zero V
	if f.checkKey && !keyhash.Hashable(key) {
		f.cfg.metrics.Error(f.cfg.name, metrics.StageKey)
		return zero, fmt.Errorf("%w: %T", ErrUnhashableKey, key)
	}

	if v, ok := f.lookup(ctx, key); ok {
		f.cfg.metrics.Hit(f.cfg.name)
		f.log.Debug().Msg("hit")
		return v, nil
	}
	f.cfg.metrics.Miss(f.cfg.name)

	if f.cfg.singleFlight {
		return f.loadOnce(ctx, key)
	}
	return f.load(ctx, key)
}

// lookup treats store errors as misses so a broken store degrades to
// recomputation.
func (f *Func[K, V]) lookup(ctx context.Context, key K) (V, bool) {
	v, ok, err := f.store.Get(ctx, key)
	if err != nil {
		f.cfg.metrics.Error(f.cfg.name, metrics.StageStore)
		f.log.Warn().Err(err).Msg("store get failed")
		var zero V
		return zero, false
	}
	return v, ok
}

func (f *Func[K, V]) load(ctx context.Context, key K) (V, error) {
	v, err := f.compute(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	if err := f.store.Set(ctx, key, v); err != nil {
		f.cfg.metrics.Error(f.cfg.name, metrics.StageStore)
		f.log.Warn().Err(err).Msg("store set failed")
	}
	return v, nil
}

// loadOnce runs load for key at most once at a time; concurrent callers for
// the same key wait and share the outcome.
func (f *Func[K, V]) loadOnce(ctx context.Context, key K) (V, error) {
	f.mu.Lock()
	if c, ok := f.loads[key]; ok {
		f.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err
	}

	// Waiters see ErrRecomputePanicked if load never returns.
	c := &call[V]{err: ErrRecomputePanicked}
	c.wg.Add(1)
	f.loads[key] = c
	f.mu.Unlock()

	defer func() {
		c.wg.Done()
		f.mu.Lock()
		delete(f.loads, key)
		f.mu.Unlock()
	}()

	c.val, c.err = f.load(ctx, key)
	return c.val, c.err
}

func (f *Func[K, V]) compute(ctx context.Context, key K) (V, error) {
	f.log.Debug().Msg("recompute")

	run := func(ctx context.Context) (V, error) {
		f.cfg.metrics.Recompute(f.cfg.name)
		return f.fn(ctx, key)
	}
	v, err := tracing.Recompute(ctx, f.cfg.tracing, f.cfg.name,
		func() string { return keyhash.String(key) },
		func(ctx context.Context) (V, error) {
			if !f.cfg.retry.Enabled() {
				return run(ctx)
			}
			return retry.Do(ctx, f.cfg.retry, run)
		})
	if err != nil {
		f.cfg.metrics.Error(f.cfg.name, metrics.StageCompute)
		f.log.Debug().Err(err).Msg("recompute failed")
	}
	return v, err
}

// Forget removes the stored result for key so the next Call recomputes it.
func (f *Func[K, V]) Forget(ctx context.Context, key K) error {
	if f.checkKey && !keyhash.Hashable(key) {
		return fmt.Errorf("%w: %T", ErrUnhashableKey, key)
	}
	return f.store.Delete(ctx, key)
}

// Warm calls f for every key concurrently, at most WithWarmLimit at a time,
// and returns the first error encountered.
func (f *Func[K, V]) Warm(ctx context.Context, keys ...K) error {
	g, ctx := errgroup.WithContext(ctx)
	limit := f.cfg.warmLimit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for _, k := range keys {
		g.Go(func() error {
			_, err := f.Call(ctx, k)
			return err
		})
	}
	return g.Wait()
}

// Len returns the number of stored results, or -1 if the store cannot tell.
func (f *Func[K, V]) Len() int {
	if s, ok := f.store.(store.Sizer); ok {
		return s.Len()
	}
	return -1
}

// Store exposes the backing store for inspection.
func (f *Func[K, V]) Store() store.Store[K, V] {
	return f.store
}

// Name returns the memo's name.
func (f *Func[K, V]) Name() string {
	return f.cfg.name
}
