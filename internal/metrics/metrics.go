package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "france_explorer"

// Lookup sources for DescriptionLookupsTotal.
const (
	SourceRedis     = "redis"
	SourceDB        = "db"
	SourceGenerated = "generated"
)

var (
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts",
		},
		[]string{"status"}, // success, invalid_credentials, error
	)

	DescriptionLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "description_lookups_total",
			Help:      "Descriptions served, by where they came from",
		},
		[]string{"source"},
	)

	DescriptionGenerationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "description_generation_failures_total",
			Help:      "Failed calls to the text generation backend",
		},
	)

	ImagesFetchFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_fetch_failures_total",
			Help:      "Image lookups that failed and were served as empty",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
