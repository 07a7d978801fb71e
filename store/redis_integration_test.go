package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Keksclan/rawrmemo/breaker"
)

func redisL2[K comparable, V any](t *testing.T) *L2[K, V] {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}
	l2 := NewL2[K, V](L2Config{Addr: addr, Prefix: "test:" + t.Name(), TTL: 10 * time.Second})
	t.Cleanup(func() { _ = l2.Close() })
	if err := l2.Ping(t.Context()); err != nil {
		t.Fatalf("cannot reach Redis at %s: %v", addr, err)
	}
	return l2
}

func TestL2_GetSet(t *testing.T) {
	l2 := redisL2[point, string](t)
	ctx := t.Context()

	key := point{3, 4}

	// Miss returns false.
	_, ok, err := l2.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}

	// Set then Get.
	if err := l2.Set(ctx, key, "v1"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	val, ok, err := l2.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if val != "v1" {
		t.Fatalf("got %q, want %q", val, "v1")
	}

	_ = l2.Delete(ctx, key)
	if _, ok, _ := l2.Get(ctx, key); ok {
		t.Fatal("expected miss after Delete")
	}
}

func TestTiered_L1_L2(t *testing.T) {
	l2 := redisL2[string, string](t)
	l1 := mustNewL1[string, string](t, 0)
	tc := NewTiered[string, string](l1, l2)
	ctx := t.Context()

	if err := tc.Set(ctx, "k", "shared"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// A fresh L1 in front of the same Redis still sees the value.
	tc2 := NewTiered[string, string](mustNewL1[string, string](t, 0), l2)
	v, ok, err := tc2.Get(ctx, "k")
	if err != nil || !ok || v != "shared" {
		t.Fatalf("got (%q, %v, %v), want (shared, true, nil)", v, ok, err)
	}
}

func TestL2_FailSoft(t *testing.T) {
	// Connect to a bogus address; operations must not panic or return errors.
	l2 := NewL2[string, string](L2Config{Addr: "localhost:1"})
	t.Cleanup(func() { _ = l2.Close() })

	ctx, cancel := context.WithTimeout(t.Context(), 500*time.Millisecond)
	defer cancel()

	_, ok, err := l2.Get(ctx, "no-such-key")
	if err != nil {
		t.Fatalf("expected nil error on unreachable Redis, got: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}

	if err := l2.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("expected nil error on unreachable Redis, got: %v", err)
	}
}

func TestL2_BreakerOpensOnUnreachableRedis(t *testing.T) {
	l2 := NewL2[string, string](L2Config{
		Addr:    "localhost:1",
		Breaker: &breaker.Config{FailureThreshold: 2, OpenTimeout: time.Minute},
	})
	t.Cleanup(func() { _ = l2.Close() })

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	for range 2 {
		_, _, _ = l2.Get(ctx, "k")
	}
	if s := l2.br.State(); s != breaker.Open {
		t.Fatalf("expected breaker open, got %s", s)
	}

	// Open breaker: still a soft miss.
	if _, ok, err := l2.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("got (%v, %v), want (false, nil)", ok, err)
	}
}
