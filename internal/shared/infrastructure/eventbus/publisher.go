// Package eventbus relays outbox events to an external broker.
package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends one event. Implementations must be safe for concurrent use.
	Publish(ctx context.Context, event *Event) error

	// Close closes the publisher connection.
	Close() error
}

// Pinger is implemented by publishers that can report broker reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Event is the wire envelope sent to brokers.
type Event struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

// CorrelationID extracts the correlation id from the event metadata, if any.
func (e *Event) CorrelationID() string {
	if len(e.Metadata) == 0 {
		return ""
	}
	var meta struct {
		CorrelationID string `json:"correlation_id"`
	}
	if err := json.Unmarshal(e.Metadata, &meta); err != nil {
		return ""
	}
	return meta.CorrelationID
}
