package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository is the user directory.
type UserRepository interface {
	// Create inserts a new user. A concurrent registration that wins the race on the
	// unique indexes surfaces as ErrEmailTaken or ErrUsernameTaken.
	Create(ctx context.Context, user *User) error
	// FindByID returns ErrUserNotFound when no account has id.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail returns ErrUserNotFound when no account has email.
	FindByEmail(ctx context.Context, email Email) (*User, error)
	ExistsByEmail(ctx context.Context, email Email) (bool, error)
	ExistsByUsername(ctx context.Context, username Username) (bool, error)
	// Delete removes the user and its todo references.
	Delete(ctx context.Context, id uuid.UUID) error

	// AttachTodo appends todoID to the user's reference list.
	AttachTodo(ctx context.Context, userID, todoID uuid.UUID, at time.Time) error
	// DetachTodo removes todoID from the user's reference list.
	DetachTodo(ctx context.Context, userID, todoID uuid.UUID) error
}
