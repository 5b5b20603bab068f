// Package upstream guards calls to external APIs with a circuit breaker and
// records their outcome.
package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/metrics"
)

// ErrNotConfigured is returned when a service has no credentials or URL.
var ErrNotConfigured = errors.New("service is not configured")

// Breaker wraps a gobreaker circuit breaker for one external service.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreaker opens after 5 consecutive failures and probes again after timeout.
func NewBreaker(name string, timeout time.Duration) *Breaker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing item or a cancelled request says nothing about the service's health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				apperr.Is(err, apperr.NotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("service", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &Breaker{name: name, cb: cb}
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

// Name is the service label used in logs and metrics.
func (b *Breaker) Name() string {
	return b.name
}

// State reports the breaker state as "closed", "half-open" or "open".
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Do runs fn through the breaker. Every failure other than NotFound comes
// back as UpstreamUnavailable with op attached.
func Do[T any](b *Breaker, op string, fn func() (T, error)) (T, error) {
	var zero T
	start := time.Now()
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	metrics.ObserveUpstream(b.name, err, time.Since(start))
	if err != nil {
		if apperr.Is(err, apperr.NotFound) || apperr.Is(err, apperr.UpstreamUnavailable) {
			return zero, err
		}
		return zero, apperr.Upstream(op, err)
	}
	v, _ := out.(T)
	return v, nil
}
