package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/tasklist/internal/identity/domain"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/crypto"
	"github.com/google/uuid"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginCommand contains the credentials presented by a caller.
type LoginCommand struct {
	Email    string
	Password string
}

// LoginResult identifies the authenticated account.
type LoginResult struct {
	UserID    uuid.UUID
	AuthToken string
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	userRepo domain.UserRepository
	hasher   crypto.PasswordHasher
	tokens   TokenIssuer
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(userRepo domain.UserRepository, hasher crypto.PasswordHasher, tokens TokenIssuer) *LoginHandler {
	return &LoginHandler{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Handle checks the credentials and issues a token.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateLoginPassword(cmd.Password); err != nil {
		return nil, err
	}

	user, err := h.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := h.hasher.Compare(user.PasswordHash(), cmd.Password); err != nil {
		if errors.Is(err, crypto.ErrMismatchedPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := h.tokens.Issue(user.ID())
	if err != nil {
		return nil, err
	}

	return &LoginResult{UserID: user.ID(), AuthToken: token}, nil
}
