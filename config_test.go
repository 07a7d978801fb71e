package rawrmemo

import (
	"testing"

	"github.com/Keksclan/rawrmemo/store"
)

func TestBuildStore_Selection(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"default", nil, "map"},
		{"l1", []Option{WithCacheL1(100)}, "l1"},
		{"l2", []Option{WithCacheL2("localhost:1", "", 0)}, "l2"},
		{"tiered", []Option{WithCacheL1(100), WithCacheL2("localhost:1", "", 0)}, "tiered"},
		{"non-positive l1 is unbounded", []Option{WithCacheL1(0)}, "map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := buildStore[string, int](newConfig(tt.opts))
			if err != nil {
				t.Fatalf("buildStore: %v", err)
			}

			var got string
			switch s := s.(type) {
			case *store.Map[string, int]:
				got = "map"
			case *store.L1[string, int]:
				got = "l1"
				s.Close()
			case *store.L2[string, int]:
				got = "l2"
				_ = s.Close()
			case *store.Tiered[string, int]:
				got = "tiered"
			default:
				t.Fatalf("unexpected store %T", s)
			}
			if got != tt.want {
				t.Fatalf("store = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := newConfig(nil)
	if cfg.name != defaultName {
		t.Fatalf("name = %q, want %q", cfg.name, defaultName)
	}
	if cfg.singleFlight {
		t.Fatal("single flight must be opt-in")
	}
	if cfg.metrics == nil {
		t.Fatal("metrics recorder must default to a no-op")
	}

	cfg = newConfig(DefaultOptions())
	if !cfg.singleFlight {
		t.Fatal("DefaultOptions must enable single flight")
	}

	cfg = newConfig([]Option{WithMetrics(nil)})
	if cfg.metrics == nil {
		t.Fatal("WithMetrics(nil) must fall back to a no-op recorder")
	}
}
