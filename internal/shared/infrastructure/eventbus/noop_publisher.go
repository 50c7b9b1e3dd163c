package eventbus

import (
	"context"
	"log/slog"
)

// NoopPublisher logs events without sending them. Used when EVENT_BROKER=none.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the event but doesn't actually publish.
func (p *NoopPublisher) Publish(ctx context.Context, event *Event) error {
	p.logger.DebugContext(ctx, "noop publish",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
	)
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error {
	return nil
}
