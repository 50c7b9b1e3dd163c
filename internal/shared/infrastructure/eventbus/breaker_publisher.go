package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker rejects publishes.
var ErrCircuitOpen = errors.New("event publisher circuit open")

// BreakerConfig configures the circuit breaker around a publisher.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before a trial publish.
	Timeout time.Duration
}

// BreakerPublisher stops calling a failing broker until it has had time to recover.
// Rejected publishes fail fast and the outbox retries them later.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerPublisher wraps next with a circuit breaker.
func NewBreakerPublisher(next Publisher, cfg BreakerConfig, logger *slog.Logger) *BreakerPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}

	settings := gobreaker.Settings{
		Name:        "event-publisher",
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Publish forwards to the wrapped publisher unless the circuit is open.
func (p *BreakerPublisher) Publish(ctx context.Context, event *Event) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, event)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// State returns the current breaker state.
func (p *BreakerPublisher) State() gobreaker.State {
	return p.breaker.State()
}

// Ping delegates to the wrapped publisher when it supports it.
func (p *BreakerPublisher) Ping(ctx context.Context) error {
	if pinger, ok := p.next.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Close closes the wrapped publisher.
func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}
