package queries

import (
	"time"

	"github.com/felixgeelhaar/tasklist/internal/identity/domain"
	"github.com/google/uuid"
)

// UserDTO is the public representation of an account. It never carries the password hash.
type UserDTO struct {
	ID       uuid.UUID   `json:"_id"`
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Date     time.Time   `json:"date"`
	Todos    []uuid.UUID `json:"todos"`
}

// ToUserDTO maps a user to its public representation.
func ToUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:       u.ID(),
		Name:     u.Name().String(),
		Username: u.Username().String(),
		Email:    u.Email().String(),
		Date:     u.CreatedAt(),
		Todos:    u.TodoIDs(),
	}
}
