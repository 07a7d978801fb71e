package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Keksclan/rawrmemo/breaker"
	"github.com/Keksclan/rawrmemo/keyhash"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces Redis keys written by L2.
const DefaultPrefix = "rawrmemo"

// L2Config configures a Redis-backed store.
type L2Config struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every Redis key. Memos sharing a Redis database
	// must use distinct prefixes. Defaults to DefaultPrefix.
	Prefix string

	// TTL bounds how long an entry survives in Redis. Zero means no expiry.
	TTL time.Duration

	// Breaker, when set, skips Redis entirely after repeated failures.
	Breaker *breaker.Config
}

// record is the JSON document stored per entry. The key is kept so digest
// collisions read as misses.
type record[K comparable, V any] struct {
	Key K `json:"k"`
	Val V `json:"v"`
}

// L2 is a Redis-backed store. Keys and values are JSON encoded; keys must
// survive a JSON round trip unchanged to ever hit. Reads and writes fail
// soft: if Redis is unavailable, Get reports a miss and Set drops the write.
type L2[K comparable, V any] struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	br     *breaker.Breaker
}

// NewL2 creates a new Redis-backed store.
func NewL2[K comparable, V any](cfg L2Config) *L2[K, V] {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewL2FromClient[K, V](rdb, cfg)
}

// NewL2FromClient creates a Redis-backed store on an existing client. The
// connection fields of cfg are ignored.
func NewL2FromClient[K comparable, V any](rdb *redis.Client, cfg L2Config) *L2[K, V] {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	l := &L2[K, V]{rdb: rdb, prefix: prefix, ttl: cfg.TTL}
	if cfg.Breaker != nil {
		l.br = breaker.New(*cfg.Breaker)
	}
	return l
}

func (l *L2[K, V]) redisKey(key K) string {
	return l.prefix + ":" + keyhash.String(key)
}

// guard runs fn through the breaker when one is configured. redis.Nil is a
// miss, not a failure.
func (l *L2[K, V]) guard(fn func() error) error {
	if l.br == nil {
		return fn()
	}
	return l.br.Do(fn, func(err error) bool { return !errors.Is(err, redis.Nil) })
}

// Get retrieves a value by key. Returns a miss when the key is absent, when
// Redis is unreachable, or when the stored document belongs to another key.
func (l *L2[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	var data []byte
	err := l.guard(func() error {
		var err error
		data, err = l.rdb.Get(ctx, l.redisKey(key)).Bytes()
		return err
	})
	if err != nil {
		// Fail soft: redis.Nil, connection errors and an open breaker are all misses.
		return zero, false, nil
	}

	var rec record[K, V]
	if err := json.Unmarshal(data, &rec); err != nil || rec.Key != key {
		return zero, false, nil
	}
	return rec.Val, true, nil
}

// Set stores val under key. Encoding errors are returned; Redis errors are
// discarded (fail soft).
func (l *L2[K, V]) Set(ctx context.Context, key K, val V) error {
	data, err := json.Marshal(record[K, V]{Key: key, Val: val})
	if err != nil {
		return fmt.Errorf("l2: encode entry: %w", err)
	}
	_ = l.guard(func() error {
		return l.rdb.Set(ctx, l.redisKey(key), data, l.ttl).Err()
	})
	return nil
}

// Delete removes key. Redis errors are discarded (fail soft).
func (l *L2[K, V]) Delete(ctx context.Context, key K) error {
	_ = l.guard(func() error {
		return l.rdb.Del(ctx, l.redisKey(key)).Err()
	})
	return nil
}

// Ping checks the Redis connection.
func (l *L2[K, V]) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (l *L2[K, V]) Close() error {
	return l.rdb.Close()
}
