package rawrmemo

// DefaultOptions returns the recommended set of options for production use.
// Currently this enables single-flight recomputation so that a burst of
// callers for a cold key runs the wrapped function once.
func DefaultOptions() []Option {
	return []Option{
		WithSingleFlight(),
	}
}
