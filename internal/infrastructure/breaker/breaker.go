package breaker

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/baechuer/france-explorer/internal/logger"
	"github.com/baechuer/france-explorer/internal/metrics"
)

type Settings struct {
	// ConsecutiveFailures opens the circuit. Default 5.
	ConsecutiveFailures uint32
	// OpenFor is how long the circuit stays open before a probe. Default 30s.
	OpenFor time.Duration
}

// New returns a circuit breaker that reports its state to the logs and to
// the circuit_breaker_state gauge.
func New[T any](name string, s Settings) *gobreaker.CircuitBreaker[T] {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenFor <= 0 {
		s.OpenFor = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
