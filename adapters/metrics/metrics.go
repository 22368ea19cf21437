// Package metrics provides Prometheus metrics collection for the
// orchestrator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the orchestrator. It implements
// ports.Metrics.
type Collector struct {
	// Load cycle metrics
	LoadsStarted  prometheus.Counter
	LoadsTotal    prometheus.Counter
	UnloadsTotal  prometheus.Counter
	LoadedModules prometheus.Gauge
	LoadDuration  prometheus.Histogram

	// Failure metrics
	ConstructFailures prometheus.Counter
	HookFailures      *prometheus.CounterVec

	// Wiring metrics
	WiringConnections *prometheus.CounterVec
}

// New creates a new metrics collector registered on reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		LoadsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "modrig",
			Name:      "loads_started_total",
			Help:      "Total number of started module load cycles",
		}),
		LoadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "modrig",
			Name:      "loads_total",
			Help:      "Total number of completed module load cycles",
		}),
		UnloadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "modrig",
			Name:      "unloads_total",
			Help:      "Total number of completed module unload cycles",
		}),
		LoadedModules: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "modrig",
			Name:      "loaded_modules",
			Help:      "Number of modules in the currently loaded set",
		}),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "modrig",
			Name:      "load_duration_seconds",
			Help:      "Module load cycle duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		ConstructFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "modrig",
			Name:      "construct_failures_total",
			Help:      "Total number of module construction failures",
		}),
		HookFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modrig",
			Name:      "hook_failures_total",
			Help:      "Total number of isolated module hook failures",
		}, []string{"category"}),
		WiringConnections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modrig",
			Name:      "wiring_connections_total",
			Help:      "Total number of dependency connection attempts",
		}, []string{"result"}),
	}
}

// LoadStarted records the beginning of a load cycle. A started count ahead
// of the completed count exposes loads dropped mid-pass.
func (c *Collector) LoadStarted() {
	c.LoadsStarted.Inc()
}

// LoadCompleted records a finished load cycle.
func (c *Collector) LoadCompleted(modules int, duration time.Duration) {
	c.LoadsTotal.Inc()
	c.LoadedModules.Set(float64(modules))
	c.LoadDuration.Observe(duration.Seconds())
}

// UnloadCompleted records a finished unload cycle.
func (c *Collector) UnloadCompleted() {
	c.UnloadsTotal.Inc()
	c.LoadedModules.Set(0)
}

// ConstructFailure records a module that yielded no instance.
func (c *Collector) ConstructFailure() {
	c.ConstructFailures.Inc()
}

// HookFailure records an isolated hook failure.
func (c *Collector) HookFailure(category string) {
	c.HookFailures.WithLabelValues(category).Inc()
}

// WiringConnection records one dependency connection attempt.
func (c *Collector) WiringConnection(failed bool) {
	result := "ok"
	if failed {
		result = "failed"
	}
	c.WiringConnections.WithLabelValues(result).Inc()
}
