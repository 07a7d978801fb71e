package rawrmemo

import (
	"time"

	"github.com/Keksclan/rawrmemo/metrics"
	"github.com/Keksclan/rawrmemo/retry"
	"github.com/Keksclan/rawrmemo/store"
	"github.com/Keksclan/rawrmemo/tracing"
	"github.com/rs/zerolog"
)

// Option configures a memoized function.
type Option func(*config)

// WithName sets the name used in logs, metrics labels, span names and the
// default Redis key prefix.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithCacheL1 bounds the memo to roughly maxCost entries in a ristretto
// store. Without it (and without WithCacheL2) the memo grows without bound.
func WithCacheL1(maxCost int64) Option {
	return func(c *config) {
		c.l1MaxCost = maxCost
	}
}

// WithCacheL2 stores results in Redis so they are shared between processes.
// Combined with WithCacheL1 the memo uses a tiered L1 → L2 store. Keys and
// values must be JSON encodable. Redis failures are treated as misses and a
// default circuit breaker stops calling Redis after repeated failures.
func WithCacheL2(addr, password string, db int) Option {
	return func(c *config) {
		c.l2 = &store.L2Config{Addr: addr, Password: password, DB: db}
	}
}

// WithCacheL2Config is WithCacheL2 with full control over prefix, TTL and
// breaker settings.
func WithCacheL2Config(cfg store.L2Config) Option {
	return func(c *config) {
		c.l2 = &cfg
	}
}

// WithTTL makes entries in L1/L2 stores expire after ttl. It has no effect
// on the default unbounded store, whose entries never expire.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

// WithSingleFlight deduplicates concurrent recomputations of the same key:
// one caller runs the function and the others wait for its result. Without
// it concurrent misses may each run the function.
func WithSingleFlight() Option {
	return func(c *config) {
		c.singleFlight = true
	}
}

// WithWarmLimit caps how many keys Warm computes at once. Zero or negative
// means GOMAXPROCS.
func WithWarmLimit(n int) Option {
	return func(c *config) {
		c.warmLimit = n
	}
}

// WithRetry re-runs a failing recomputation according to cfg before the
// error is returned to the caller.
func WithRetry(cfg retry.Config) Option {
	return func(c *config) {
		c.retry = cfg
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMetrics sets the metrics recorder, typically a *metrics.Prometheus
// shared by all memos of a process.
func WithMetrics(r metrics.Recorder) Option {
	return func(c *config) {
		if r == nil {
			r = metrics.Noop{}
		}
		c.metrics = r
	}
}

// WithOpenTelemetry wraps every recomputation in a span.
func WithOpenTelemetry(cfg tracing.Config) Option {
	return func(c *config) {
		c.tracing = &cfg
	}
}
