package rawrmemo

import (
	"time"

	"github.com/Keksclan/rawrmemo/breaker"
	"github.com/Keksclan/rawrmemo/metrics"
	"github.com/Keksclan/rawrmemo/retry"
	"github.com/Keksclan/rawrmemo/store"
	"github.com/Keksclan/rawrmemo/tracing"
	"github.com/rs/zerolog"
)

const defaultName = "memo"

// config holds the internal configuration assembled via functional options.
type config struct {
	name string

	// l1MaxCost > 0 selects a bounded ristretto store.
	l1MaxCost int64
	// l2 != nil selects a Redis store; with l1 as well the two are tiered.
	l2  *store.L2Config
	ttl time.Duration

	singleFlight bool
	warmLimit    int

	retry   retry.Config
	logger  zerolog.Logger
	metrics metrics.Recorder
	tracing *tracing.Config
}

func newConfig(opts []Option) config {
	cfg := config{
		name:    defaultName,
		logger:  zerolog.Nop(),
		metrics: metrics.Noop{},
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// buildStore picks the backing store described by cfg. With neither L1 nor
// L2 configured the result is an unbounded map.
func buildStore[K comparable, V any](cfg config) (store.Store[K, V], error) {
	var l1 store.Store[K, V]
	if cfg.l1MaxCost > 0 {
		c, err := store.NewL1[K, V](cfg.l1MaxCost, cfg.ttl)
		if err != nil {
			return nil, err
		}
		l1 = c
	}

	var l2 store.Store[K, V]
	if cfg.l2 != nil {
		l2cfg := *cfg.l2
		if l2cfg.TTL == 0 {
			l2cfg.TTL = cfg.ttl
		}
		if l2cfg.Prefix == "" {
			l2cfg.Prefix = store.DefaultPrefix + ":" + cfg.name
		}
		if l2cfg.Breaker == nil {
			bc := breaker.DefaultConfig()
			l2cfg.Breaker = &bc
		}
		l2 = store.NewL2[K, V](l2cfg)
	}

	switch {
	case l1 != nil && l2 != nil:
		return store.NewTiered(l1, l2), nil
	case l1 != nil:
		return l1, nil
	case l2 != nil:
		return l2, nil
	default:
		return store.NewMap[K, V](), nil
	}
}
