package queries

import (
	"context"

	"github.com/felixgeelhaar/tasklist/internal/todos/domain/todo"
	"github.com/google/uuid"
)

// ListTodosQuery asks for every todo of a user.
type ListTodosQuery struct {
	UserID uuid.UUID
}

// ListTodosHandler handles the ListTodosQuery.
type ListTodosHandler struct {
	todoRepo todo.Repository
}

// NewListTodosHandler creates a new ListTodosHandler.
func NewListTodosHandler(todoRepo todo.Repository) *ListTodosHandler {
	return &ListTodosHandler{todoRepo: todoRepo}
}

// Handle returns the user's todos in creation order.
func (h *ListTodosHandler) Handle(ctx context.Context, query ListTodosQuery) ([]TodoDTO, error) {
	todos, err := h.todoRepo.FindByOwner(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	return ToTodoDTOs(todos), nil
}
