package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "User"

	RoutingKeyUserRegistered = "identity.user.registered"
	RoutingKeyUserDeleted    = "identity.user.deleted"
)

// UserRegistered is emitted when an account is created.
type UserRegistered struct {
	sharedDomain.BaseEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserRegistered creates a UserRegistered event.
func NewUserRegistered(userID uuid.UUID, username, email string, at time.Time) *UserRegistered {
	return &UserRegistered{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateType, RoutingKeyUserRegistered, at),
		Username:  username,
		Email:     email,
	}
}

// UserDeleted is emitted when an account and its todos are removed.
type UserDeleted struct {
	sharedDomain.BaseEvent
	Username     string `json:"username"`
	TodosDeleted int64  `json:"todos_deleted"`
}

// NewUserDeleted creates a UserDeleted event.
func NewUserDeleted(userID uuid.UUID, username string, todosDeleted int64, at time.Time) *UserDeleted {
	return &UserDeleted{
		BaseEvent:    sharedDomain.NewBaseEvent(userID, AggregateType, RoutingKeyUserDeleted, at),
		Username:     username,
		TodosDeleted: todosDeleted,
	}
}
