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

// DeleteTodoCommand removes a todo.
type DeleteTodoCommand struct {
	UserID uuid.UUID
	TodoID string
}

// DeleteTodoHandler handles the DeleteTodoCommand.
type DeleteTodoHandler struct {
	todoRepo   todo.Repository
	owners     OwnerIndex
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewDeleteTodoHandler creates a new DeleteTodoHandler.
func NewDeleteTodoHandler(todoRepo todo.Repository, owners OwnerIndex, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteTodoHandler {
	return &DeleteTodoHandler{
		todoRepo:   todoRepo,
		owners:     owners,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// Handle deletes the todo, pulls it from the owner's list and returns the remaining todos.
func (h *DeleteTodoHandler) Handle(ctx context.Context, cmd DeleteTodoCommand) ([]queries.TodoDTO, error) {
	return sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) ([]queries.TodoDTO, error) {
		t, err := loadOwned(txCtx, h.todoRepo, cmd.TodoID, cmd.UserID)
		if err != nil {
			return nil, err
		}

		if err := h.owners.DetachTodo(txCtx, cmd.UserID, t.ID()); err != nil {
			return nil, err
		}
		if err := h.todoRepo.Delete(txCtx, t.ID()); err != nil {
			return nil, err
		}

		t.MarkDeleted(h.now())
		events := t.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.UserID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return nil, err
		}

		remaining, err := h.todoRepo.FindByOwner(txCtx, cmd.UserID)
		if err != nil {
			return nil, err
		}
		return queries.ToTodoDTOs(remaining), nil
	})
}
