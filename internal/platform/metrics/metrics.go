// Package metrics exposes the fetcher/circuit-breaker/orchestrator
// observability spec.md asks for (§4.1 "Observability", §4.5's network
// health tracker) as Prometheus collectors. Grounded on
// 99souls-ariadne/engine/telemetry/metrics/prometheus.go's direct use of
// github.com/prometheus/client_golang, simplified to the fixed set of
// gauges/counters this system needs rather than that repo's dynamic
// per-metric registry (this module has no plugin-defined metrics to
// support).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every collector this module registers. Construct one
// with New and register it with prometheus.DefaultRegisterer, or keep it
// private for tests.
type Registry struct {
	FetchAttempts      *prometheus.CounterVec
	FetchFailures      *prometheus.CounterVec
	CacheHits          *prometheus.CounterVec
	CircuitState       *prometheus.GaugeVec
	RefreshInterval    prometheus.Gauge
	FeaturedSwitches   prometheus.Counter
	BoardTransitions   *prometheus.CounterVec
	DisplayFlushErrors prometheus.Counter
}

func New() *Registry {
	return &Registry{
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_fetch_attempts_total",
			Help: "Total upstream fetch attempts, by league.",
		}, []string{"league"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_fetch_failures_total",
			Help: "Total upstream fetch failures, by league.",
		}, []string{"league"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_cache_hits_total",
			Help: "Cache hits by tier (memory, stale).",
		}, []string{"tier"}),
		CircuitState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scoreboard_circuit_state",
			Help: "Circuit breaker state per league (0=closed,1=half_open,2=open).",
		}, []string{"league"}),
		RefreshInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scoreboard_refresh_interval_seconds",
			Help: "Most recently computed tick interval.",
		}),
		FeaturedSwitches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_featured_switches_total",
			Help: "Number of times the featured game changed.",
		}),
		BoardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_board_transitions_total",
			Help: "Board transitions, by destination board name.",
		}, []string{"board"}),
		DisplayFlushErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoreboard_display_flush_errors_total",
			Help: "Failed display sink flushes.",
		}),
	}
}

// MustRegister registers every collector with reg, panicking on a
// programming error (duplicate registration) exactly as
// prometheus.MustRegister does elsewhere in the ecosystem.
func (r *Registry) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		r.FetchAttempts,
		r.FetchFailures,
		r.CacheHits,
		r.CircuitState,
		r.RefreshInterval,
		r.FeaturedSwitches,
		r.BoardTransitions,
		r.DisplayFlushErrors,
	)
}

// CircuitStateValue maps a resilience.CircuitState label to the gauge
// value used above.
func CircuitStateValue(state string) float64 {
	switch state {
	case "half_open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
