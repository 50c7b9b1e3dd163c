package todo

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for todo persistence.
type Repository interface {
	Create(ctx context.Context, t *Todo) error
	Update(ctx context.Context, t *Todo) error
	// FindByID returns ErrTodoNotFound when no todo has id.
	FindByID(ctx context.Context, id uuid.UUID) (*Todo, error)
	// FindByOwner returns the owner's todos in creation order.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByOwner removes every todo of ownerID and reports how many were removed.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
