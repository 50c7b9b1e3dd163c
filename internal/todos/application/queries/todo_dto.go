package queries

import (
	"github.com/felixgeelhaar/tasklist/internal/todos/domain/todo"
	"github.com/google/uuid"
)

// TodoDTO is the public representation of a todo.
type TodoDTO struct {
	ID         uuid.UUID `json:"_id"`
	User       uuid.UUID `json:"user"`
	Text       string    `json:"text"`
	Date       string    `json:"date"`
	IsComplete bool      `json:"isComplete"`
}

// ToTodoDTO maps a todo to its public representation.
func ToTodoDTO(t *todo.Todo) TodoDTO {
	return TodoDTO{
		ID:         t.ID(),
		User:       t.OwnerID(),
		Text:       t.Text(),
		Date:       t.Date(),
		IsComplete: t.IsComplete(),
	}
}

// ToTodoDTOs maps a list, never returning nil.
func ToTodoDTOs(todos []*todo.Todo) []TodoDTO {
	dtos := make([]TodoDTO, 0, len(todos))
	for _, t := range todos {
		dtos = append(dtos, ToTodoDTO(t))
	}
	return dtos
}
