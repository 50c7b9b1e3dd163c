// Package domain holds user accounts: registration rules, credentials and the
// per-user index of todo references.
package domain

import (
	"errors"
	"slices"
	"time"

	sharedDomain "github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("another user with the same email already exists")
	ErrUsernameTaken = errors.New("another user with the same username already exists")
)

// User is a registered account.
type User struct {
	sharedDomain.BaseAggregateRoot
	name         Name
	username     Username
	email        Email
	passwordHash string
	todoIDs      []uuid.UUID
}

// NewUser registers an account with an already hashed password.
func NewUser(name Name, username Username, email Email, passwordHash string, now time.Time) *User {
	u := &User{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		name:              name,
		username:          username,
		email:             email,
		passwordHash:      passwordHash,
	}

	u.AddDomainEvent(NewUserRegistered(u.ID(), username.String(), email.String(), u.CreatedAt()))

	return u
}

// RehydrateUser recreates a user from storage. todoIDs is the denormalized
// reference list in insertion order.
func RehydrateUser(
	id uuid.UUID,
	name, username, email, passwordHash string,
	createdAt, updatedAt time.Time,
	todoIDs []uuid.UUID,
) *User {
	return &User{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		name:         Name{value: name},
		username:     Username{value: username},
		email:        Email{value: email},
		passwordHash: passwordHash,
		todoIDs:      todoIDs,
	}
}

func (u *User) Name() Name           { return u.name }
func (u *User) Username() Username   { return u.username }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) TodoIDs() []uuid.UUID { return slices.Clone(u.todoIDs) }

// MarkDeleted records the deletion of the account and how many todos went with it.
func (u *User) MarkDeleted(todosDeleted int64, now time.Time) {
	u.AddDomainEvent(NewUserDeleted(u.ID(), u.username.String(), todosDeleted, now))
}
