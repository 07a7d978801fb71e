package rawrmemo

import "errors"

var (
	// ErrUnhashableKey is returned when a key holds a value that cannot be
	// used as a map key, such as a slice stored in an interface.
	ErrUnhashableKey = errors.New("rawrmemo: unhashable key")

	// ErrRecomputePanicked is returned to callers waiting on a single-flight
	// recomputation whose function panicked.
	ErrRecomputePanicked = errors.New("rawrmemo: recompute panicked")

	// ErrInvalidConfig is returned when a configuration file describes an
	// unusable memo.
	ErrInvalidConfig = errors.New("rawrmemo: invalid config")
)
