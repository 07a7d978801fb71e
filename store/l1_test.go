package store

import (
	"testing"
	"time"
)

type point struct{ X, Y int }

func mustNewL1[K comparable, V any](t *testing.T, ttl time.Duration) *L1[K, V] {
	t.Helper()
	c, err := NewL1[K, V](1000, ttl)
	if err != nil {
		t.Fatalf("NewL1: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestL1_GetSet(t *testing.T) {
	c := mustNewL1[string, string](t, 0)
	ctx := t.Context()

	// Miss returns false.
	_, ok, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}

	// Set then Get.
	if err := c.Set(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	val, ok, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if val != "v1" {
		t.Fatalf("got %q, want %q", val, "v1")
	}
}

func TestL1_StructKeys(t *testing.T) {
	c := mustNewL1[point, int](t, 0)
	ctx := t.Context()

	_ = c.Set(ctx, point{1, 2}, 3)
	_ = c.Set(ctx, point{2, 1}, 30)

	if v, ok, _ := c.Get(ctx, point{1, 2}); !ok || v != 3 {
		t.Fatalf("got (%d, %v), want (3, true)", v, ok)
	}
	if v, ok, _ := c.Get(ctx, point{2, 1}); !ok || v != 30 {
		t.Fatalf("got (%d, %v), want (30, true)", v, ok)
	}
}

func TestL1_Delete(t *testing.T) {
	c := mustNewL1[string, int](t, 0)
	ctx := t.Context()

	_ = c.Set(ctx, "k", 1)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss after Delete")
	}
}

func TestL1_TTLExpires(t *testing.T) {
	c := mustNewL1[string, string](t, 50*time.Millisecond)
	ctx := t.Context()

	if err := c.Set(ctx, "ttl", "temp"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Should be present immediately.
	if _, ok, _ := c.Get(ctx, "ttl"); !ok {
		t.Fatal("expected hit before TTL")
	}

	// Ristretto cleanup may need a bit of extra time.
	time.Sleep(200 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "ttl"); ok {
		t.Fatal("expected miss after TTL")
	}
}

func TestNewL1_RejectsZeroCost(t *testing.T) {
	if _, err := NewL1[string, string](0, 0); err == nil {
		t.Fatal("expected error for zero max cost")
	}
}

func TestL1_HoldsMaxCostEntries(t *testing.T) {
	c := mustNewL1[int, int](t, 0)
	ctx := t.Context()

	for k := range 500 {
		_ = c.Set(ctx, k, k)
	}
	for k := range 500 {
		if v, ok, _ := c.Get(ctx, k); !ok || v != k {
			t.Fatalf("key %d: got (%d, %v), want (%d, true)", k, v, ok, k)
		}
	}
}
