package commands

import (
	"context"

	"github.com/google/uuid"
)

// TokenIssuer signs the bearer token handed out at registration and login.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// TodoPurger removes every todo owned by a user. It must join the unit of work in ctx.
type TodoPurger interface {
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
