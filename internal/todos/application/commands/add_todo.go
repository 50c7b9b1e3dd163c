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

// AddTodoCommand contains the data needed to add a todo.
type AddTodoCommand struct {
	UserID uuid.UUID
	Text   string
	Date   string
}

// AddTodoHandler handles the AddTodoCommand.
type AddTodoHandler struct {
	todoRepo   todo.Repository
	owners     OwnerIndex
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewAddTodoHandler creates a new AddTodoHandler.
func NewAddTodoHandler(todoRepo todo.Repository, owners OwnerIndex, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *AddTodoHandler {
	return &AddTodoHandler{
		todoRepo:   todoRepo,
		owners:     owners,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// Handle creates the todo and appends it to the owner's list.
func (h *AddTodoHandler) Handle(ctx context.Context, cmd AddTodoCommand) (*queries.TodoDTO, error) {
	t, err := todo.NewTodo(cmd.UserID, cmd.Text, cmd.Date, h.now())
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.todoRepo.Create(txCtx, t); err != nil {
			return err
		}
		if err := h.owners.AttachTodo(txCtx, cmd.UserID, t.ID(), t.CreatedAt()); err != nil {
			return err
		}

		events := t.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.UserID))
		return outbox.SaveEvents(txCtx, h.outboxRepo, events)
	})
	if err != nil {
		return nil, err
	}
	t.ClearDomainEvents()

	dto := queries.ToTodoDTO(t)
	return &dto, nil
}
