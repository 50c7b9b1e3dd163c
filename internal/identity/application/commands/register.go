package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/tasklist/internal/shared/application"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RegisterCommand contains the data needed to create an account.
type RegisterCommand struct {
	Name     string
	Username string
	Email    string
	Password string
}

// RegisterResult contains the new account and its first token.
type RegisterResult struct {
	UserID    uuid.UUID
	AuthToken string
}

// RegisterHandler handles the RegisterCommand.
type RegisterHandler struct {
	userRepo   domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	hasher     crypto.PasswordHasher
	tokens     TokenIssuer
	now        func() time.Time
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(
	userRepo domain.UserRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	hasher crypto.PasswordHasher,
	tokens TokenIssuer,
) *RegisterHandler {
	return &RegisterHandler{
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		hasher:     hasher,
		tokens:     tokens,
		now:        time.Now,
	}
}

// Handle validates the input in field order and reports the first failing rule.
func (h *RegisterHandler) Handle(ctx context.Context, cmd RegisterCommand) (*RegisterResult, error) {
	name, err := domain.NewName(cmd.Name)
	if err != nil {
		return nil, err
	}
	username, err := domain.NewUsername(cmd.Username)
	if err != nil {
		return nil, err
	}
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	password, err := domain.NewPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	// bcrypt runs before the unit of work and must not hold the connection.
	hash, err := h.hasher.Hash(password.Plaintext())
	if err != nil {
		return nil, err
	}

	user, err := sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) (*domain.User, error) {
		taken, err := h.userRepo.ExistsByEmail(txCtx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}

		taken, err = h.userRepo.ExistsByUsername(txCtx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}

		u := domain.NewUser(name, username, email, hash, h.now())
		if err := h.userRepo.Create(txCtx, u); err != nil {
			return nil, err
		}

		events := u.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, u.ID()))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return nil, err
		}
		u.ClearDomainEvents()

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	token, err := h.tokens.Issue(user.ID())
	if err != nil {
		return nil, err
	}

	return &RegisterResult{UserID: user.ID(), AuthToken: token}, nil
}
