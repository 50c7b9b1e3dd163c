package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OwnerIndex maintains the per-user list of todo references. It must join the
// unit of work in ctx so the list commits with the todo.
type OwnerIndex interface {
	AttachTodo(ctx context.Context, userID, todoID uuid.UUID, at time.Time) error
	DetachTodo(ctx context.Context, userID, todoID uuid.UUID) error
}
