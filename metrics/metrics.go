// Package metrics reports what memoized functions are doing: hits, misses,
// recomputations and errors, each labelled with the memo's name.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error stages passed to Recorder.Error.
const (
	StageCompute = "compute"
	StageStore   = "store"
	StageKey     = "key"
)

// Recorder receives one event per memo lifecycle step.
type Recorder interface {
	// Hit is called when a stored result is returned.
	Hit(name string)

	// Miss is called when no stored result exists for the key.
	Miss(name string)

	// Recompute is called each time the wrapped function is invoked.
	Recompute(name string)

	// Error is called when a stage fails; stage is one of the Stage* constants.
	Error(name, stage string)
}

// Noop discards every event.
type Noop struct{}

func (Noop) Hit(string)           {}
func (Noop) Miss(string)          {}
func (Noop) Recompute(string)     {}
func (Noop) Error(string, string) {}

// Prometheus records events as counters.
type Prometheus struct {
	hits       *prometheus.CounterVec
	misses     *prometheus.CounterVec
	recomputes *prometheus.CounterVec
	errors     *prometheus.CounterVec
}

// NewPrometheus registers the memo counters on reg under namespace. It
// panics if the counters are already registered on reg, so create one
// Prometheus per registry and share it between memos.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		hits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_hits_total",
			Help:      "Total number of memoized results served from the store.",
		}, []string{"memo"}),
		misses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_misses_total",
			Help:      "Total number of lookups with no stored result.",
		}, []string{"memo"}),
		recomputes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_recomputes_total",
			Help:      "Total number of invocations of the wrapped function.",
		}, []string{"memo"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_errors_total",
			Help:      "Total number of failures by stage.",
		}, []string{"memo", "stage"}), // "compute", "store", "key"
	}
}

func (p *Prometheus) Hit(name string)       { p.hits.WithLabelValues(name).Inc() }
func (p *Prometheus) Miss(name string)      { p.misses.WithLabelValues(name).Inc() }
func (p *Prometheus) Recompute(name string) { p.recomputes.WithLabelValues(name).Inc() }

func (p *Prometheus) Error(name, stage string) {
	p.errors.WithLabelValues(name, stage).Inc()
}
