package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		1, 5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	RequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "corsgate_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "corsgate_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"type"}, // "total" or "upstream"
	)

	CorsDecisionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "corsgate_cors_decisions_total",
			Help: "CORS decisions by outcome and rejection reason",
		},
		[]string{"outcome", "reason", "preflight"},
	)

	PolicyReloadsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "corsgate_policy_reloads_total",
			Help: "Policy snapshot reloads by result",
		},
		[]string{"result"},
	)

	Policies = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "corsgate_policies",
			Help: "Number of registrations in the active policy snapshot",
		},
	)

	ViolationEventsDropped = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "corsgate_violation_events_dropped_total",
			Help: "Violation events dropped because the worker queue was full",
		},
	)
)

type MetricsConfig struct {
	EnableLatency   bool // Request latency histograms
	EnableDecisions bool // Per-outcome CORS decision counters
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:   true,
		EnableDecisions: true,
	}
}

var Config = DefaultMetricsConfig()

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

// Gatherer exposes the private registry for the /metrics handler.
func Gatherer() prometheus.Gatherer {
	return registry
}
