package commands

import (
	"context"

	"github.com/felixgeelhaar/tasklist/internal/todos/domain/todo"
	"github.com/google/uuid"
)

// loadOwned fetches a todo the caller may change. A malformed id is reported as not found.
func loadOwned(ctx context.Context, repo todo.Repository, rawID string, userID uuid.UUID) (*todo.Todo, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, todo.ErrTodoNotFound
	}
	t, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.EnsureOwnedBy(userID); err != nil {
		return nil, err
	}
	return t, nil
}
