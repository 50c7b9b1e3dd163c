package application

import (
	"context"

	"github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
	"github.com/google/uuid"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata creates command-scoped metadata for domain events. The correlation ID
// is taken from the request context so published events can be traced back to a request.
func NewEventMetadata(ctx context.Context, userID uuid.UUID) domain.EventMetadata {
	return domain.EventMetadata{
		CorrelationID: observability.CorrelationIDFromContext(ctx),
		CausationID:   uuid.New(),
		UserID:        userID,
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}
