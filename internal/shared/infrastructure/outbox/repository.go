package outbox

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/shared/domain"
)

// Repository defines the interface for outbox persistence.
type Repository interface {
	// Save stores a new outbox message.
	Save(ctx context.Context, msg *Message) error

	// SaveBatch stores multiple outbox messages atomically.
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished retrieves messages that are due for publishing, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	// MarkPublished marks a message as successfully published.
	MarkPublished(ctx context.Context, id int64) error

	// MarkFailed records a publish failure and when to try again.
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error

	// MarkDead marks a message as dead-lettered.
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld removes published messages older than the retention period.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}

// SaveEvents writes the events raised by aggregates. Call it inside the unit of work
// that persists the aggregates so events and state commit together.
func SaveEvents(ctx context.Context, repo Repository, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs, err := NewMessages(events)
	if err != nil {
		return err
	}
	return repo.SaveBatch(ctx, msgs)
}
