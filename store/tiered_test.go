package store

import (
	"context"
	"errors"
	"testing"
)

// failingStore always errors; used to check error propagation.
type failingStore[K comparable, V any] struct{ err error }

func (f failingStore[K, V]) Get(context.Context, K) (V, bool, error) {
	var zero V
	return zero, false, f.err
}
func (f failingStore[K, V]) Set(context.Context, K, V) error { return f.err }
func (f failingStore[K, V]) Delete(context.Context, K) error { return f.err }

func TestTiered_PromotesFarHits(t *testing.T) {
	near, far := NewMap[string, string](), NewMap[string, string]()
	tc := NewTiered[string, string](near, far)
	ctx := t.Context()

	_ = far.Set(ctx, "k", "from-far")

	v, ok, err := tc.Get(ctx, "k")
	if err != nil || !ok || v != "from-far" {
		t.Fatalf("got (%q, %v, %v), want (from-far, true, nil)", v, ok, err)
	}
	if v, ok, _ := near.Get(ctx, "k"); !ok || v != "from-far" {
		t.Fatal("expected far hit to be promoted into near")
	}
}

func TestTiered_SetWritesBoth(t *testing.T) {
	near, far := NewMap[string, int](), NewMap[string, int]()
	tc := NewTiered[string, int](near, far)
	ctx := t.Context()

	if err := tc.Set(ctx, "k", 7); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if near.Len() != 1 || far.Len() != 1 {
		t.Fatalf("expected both levels populated, near=%d far=%d", near.Len(), far.Len())
	}

	if err := tc.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if near.Len() != 0 || far.Len() != 0 {
		t.Fatalf("expected both levels empty, near=%d far=%d", near.Len(), far.Len())
	}
}

func TestTiered_FarErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	tc := NewTiered[string, int](NewMap[string, int](), failingStore[string, int]{err: boom})
	ctx := t.Context()

	if _, _, err := tc.Get(ctx, "k"); !errors.Is(err, boom) {
		t.Fatalf("expected far Get error, got %v", err)
	}
	if err := tc.Set(ctx, "k", 1); !errors.Is(err, boom) {
		t.Fatalf("expected far Set error, got %v", err)
	}
}

func TestTiered_FarSetFailureStillWritesNear(t *testing.T) {
	boom := errors.New("boom")
	near := NewMap[string, int]()
	tc := NewTiered[string, int](near, failingStore[string, int]{err: boom})
	ctx := t.Context()

	if err := tc.Set(ctx, "k", 3); !errors.Is(err, boom) {
		t.Fatalf("expected far Set error, got %v", err)
	}
	if v, ok, _ := near.Get(ctx, "k"); !ok || v != 3 {
		t.Fatalf("near = (%d, %v), want (3, true)", v, ok)
	}
}
