package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/vibereader/vibereader-server/internal/metrics"
)

// BreakerConfig tunes a Breaker. Zero values use the defaults.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before a trial call.
	OpenTimeout time.Duration
	// Interval resets the closed-state counts. Zero keeps counts until a state change.
	Interval time.Duration
}

const (
	defaultFailureThreshold = 3
	defaultOpenTimeout      = 30 * time.Second
)

// Breaker wraps a Provider with a circuit breaker. While open, calls fail
// immediately with ErrProviderCall without reaching the provider.
type Breaker struct {
	next   Provider
	cb     *gobreaker.CircuitBreaker[string]
	name   string
	logger *slog.Logger
}

// NewBreaker wraps next.
func NewBreaker(next Provider, cfg BreakerConfig, logger *slog.Logger) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}

	name := "llm-" + next.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	b := &Breaker{next: next, name: name, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state change",
				"name", name,
				"from", stateToString(from),
				"to", stateToString(to),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})
	return b
}

// Name implements Provider.
func (b *Breaker) Name() string { return b.next.Name() }

// State reports the circuit state: "closed", "half-open" or "open".
func (b *Breaker) State() string { return stateToString(b.cb.State()) }

// Generate implements Provider.
func (b *Breaker) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt)
	})
	elapsed := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordProviderCall(b.next.Name(), elapsed, metrics.OutcomeSuccess)
		return text, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordProviderCall(b.next.Name(), elapsed, metrics.OutcomeRejected)
		b.logger.Warn("provider call rejected", "provider", b.next.Name(), "error", err)
		return "", fmt.Errorf("%w: %s: %w", ErrProviderCall, b.next.Name(), err)
	default:
		metrics.RecordProviderCall(b.next.Name(), elapsed, metrics.OutcomeFailure)
		return "", err
	}
}

// countsAsHealthy keeps caller cancellations and missing credentials from
// tripping the circuit. Client timeouts are wrapped in ErrProviderCall and count.
func countsAsHealthy(err error) bool {
	switch {
	case err == nil, errors.Is(err, ErrNotConfigured):
		return true
	case errors.Is(err, ErrProviderCall):
		return false
	default:
		return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
