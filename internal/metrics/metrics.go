// Package metrics exposes the Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whattoeat_recommendations_total",
			Help: "Recommendation cycles by outcome (ok, provider_error)",
		},
		[]string{"outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "whattoeat_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)

	SessionsSwept = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whattoeat_sessions_swept_total",
			Help: "Sessions evicted by the sweeper, by identity kind (account, anonymous)",
		},
		[]string{"kind"},
	)

	FlushFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whattoeat_sweep_flush_failures_total",
			Help: "Failed durable flushes of evicted sessions",
		},
	)

	ImageFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whattoeat_image_fallbacks_total",
			Help: "Image lookups answered with the fallback image",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "whattoeat_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
