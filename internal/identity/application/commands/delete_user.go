package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/identity/application/queries"
	"github.com/felixgeelhaar/tasklist/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/tasklist/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteUserCommand asks to remove TargetID, as named in the request path, on behalf of UserID.
type DeleteUserCommand struct {
	UserID   uuid.UUID
	TargetID string
}

// DeleteUserHandler handles the DeleteUserCommand.
type DeleteUserHandler struct {
	userRepo   domain.UserRepository
	todos      TodoPurger
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	now        func() time.Time
}

// NewDeleteUserHandler creates a new DeleteUserHandler.
func NewDeleteUserHandler(
	userRepo domain.UserRepository,
	todos TodoPurger,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *DeleteUserHandler {
	return &DeleteUserHandler{
		userRepo:   userRepo,
		todos:      todos,
		outboxRepo: outboxRepo,
		uow:        uow,
		now:        time.Now,
	}
}

// Handle deletes the caller's account together with all of its todos and returns
// the account as it was before deletion. Callers may only delete themselves; that
// is checked before the account is looked up.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) (*queries.UserDTO, error) {
	target, err := uuid.Parse(cmd.TargetID)
	if err != nil || target != cmd.UserID {
		return nil, sharedDomain.ErrNotAllowed
	}

	return sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) (*queries.UserDTO, error) {
		user, err := h.userRepo.FindByID(txCtx, target)
		if err != nil {
			return nil, err
		}

		removed, err := h.todos.DeleteByOwner(txCtx, user.ID())
		if err != nil {
			return nil, err
		}
		if err := h.userRepo.Delete(txCtx, user.ID()); err != nil {
			return nil, err
		}

		user.MarkDeleted(removed, h.now())
		events := user.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.UserID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return nil, err
		}

		dto := queries.ToUserDTO(user)
		return &dto, nil
	})
}
