// internal/common/database/breaker.go
// Circuit breaker shared by the repository adapters

package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

var (
	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "discovery_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	breakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_breaker_requests_total",
			Help: "Requests passed through a circuit breaker by result",
		},
		[]string{"name", "result"},
	)
)

// ErrBreakerOpen is returned when the breaker rejects a call.
var ErrBreakerOpen = errors.New("backing service temporarily unavailable")

// BreakerConfig tunes when a breaker trips.
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig mirrors the settings used for the other upstreams.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// Breaker wraps a gobreaker instance. A nil *Breaker runs calls directly.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreaker builds a breaker. Errors matching one of expected are treated as
// successful outcomes (for example "not found") and never trip the circuit.
func NewBreaker(name string, cfg BreakerConfig, logger zerolog.Logger, expected ...error) *Breaker {
	breakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			breakerState.WithLabelValues(name).Set(stateValue(to))
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			for _, e := range expected {
				if errors.Is(err, e) {
					return true
				}
			}
			return false
		},
	})

	return &Breaker{cb: cb, name: name}
}

// Execute runs fn through the breaker and returns its typed result.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}

	var zero T
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			breakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return zero, fmt.Errorf("%s: %w", b.name, ErrBreakerOpen)
		}
		breakerRequests.WithLabelValues(b.name, "failure").Inc()
		return zero, err
	}
	breakerRequests.WithLabelValues(b.name, "success").Inc()

	typed, ok := res.(T)
	if !ok && res != nil {
		return zero, fmt.Errorf("%s: unexpected result type %T", b.name, res)
	}
	return typed, nil
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
