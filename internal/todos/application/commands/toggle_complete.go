package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/tasklist/internal/shared/application"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tasklist/internal/todos/application/queries"
	"github.com/felixgeelhaar/tasklist/internal/todos/domain/todo"
	"github.com/google/uuid"
)

// ToggleCompleteCommand flips the completion flag of a todo.
type ToggleCompleteCommand struct {
	UserID uuid.UUID
	TodoID string
}

// ToggleCompleteHandler handles the ToggleCompleteCommand.
type ToggleCompleteHandler struct {
	todoRepo   todo.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewToggleCompleteHandler creates a new ToggleCompleteHandler.
func NewToggleCompleteHandler(todoRepo todo.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ToggleCompleteHandler {
	return &ToggleCompleteHandler{
		todoRepo:   todoRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// Handle toggles the todo and returns the caller's refreshed list.
func (h *ToggleCompleteHandler) Handle(ctx context.Context, cmd ToggleCompleteCommand) ([]queries.TodoDTO, error) {
	return sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) ([]queries.TodoDTO, error) {
		t, err := loadOwned(txCtx, h.todoRepo, cmd.TodoID, cmd.UserID)
		if err != nil {
			return nil, err
		}

		t.ToggleComplete(h.now())
		if err := h.todoRepo.Update(txCtx, t); err != nil {
			return nil, err
		}

		events := t.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.UserID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return nil, err
		}

		todos, err := h.todoRepo.FindByOwner(txCtx, cmd.UserID)
		if err != nil {
			return nil, err
		}
		return queries.ToTodoDTOs(todos), nil
	})
}
