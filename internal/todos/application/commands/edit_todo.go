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

// EditTodoCommand carries the fields to replace. Nil fields are left as they are.
type EditTodoCommand struct {
	UserID uuid.UUID
	TodoID string
	Text   *string
	Date   *string
}

// EditTodoHandler handles the EditTodoCommand.
type EditTodoHandler struct {
	todoRepo   todo.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewEditTodoHandler creates a new EditTodoHandler.
func NewEditTodoHandler(todoRepo todo.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *EditTodoHandler {
	return &EditTodoHandler{
		todoRepo:   todoRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// Handle checks existence, then ownership, then the new text.
func (h *EditTodoHandler) Handle(ctx context.Context, cmd EditTodoCommand) (*queries.TodoDTO, error) {
	return sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) (*queries.TodoDTO, error) {
		t, err := loadOwned(txCtx, h.todoRepo, cmd.TodoID, cmd.UserID)
		if err != nil {
			return nil, err
		}

		if err := t.Edit(cmd.Text, cmd.Date, h.now()); err != nil {
			return nil, err
		}
		if err := h.todoRepo.Update(txCtx, t); err != nil {
			return nil, err
		}

		events := t.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.UserID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return nil, err
		}

		dto := queries.ToTodoDTO(t)
		return &dto, nil
	})
}
