package todo

import (
	"time"

	"github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Todo"

	RoutingKeyCreated           = "todos.todo.created"
	RoutingKeyUpdated           = "todos.todo.updated"
	RoutingKeyCompletionToggled = "todos.todo.completion_toggled"
	RoutingKeyDeleted           = "todos.todo.deleted"
)

// TodoCreated is emitted when a todo is added.
type TodoCreated struct {
	domain.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Text    string    `json:"text"`
	Date    string    `json:"date"`
}

// NewTodoCreated creates a TodoCreated event.
func NewTodoCreated(todoID, ownerID uuid.UUID, text, date string, at time.Time) *TodoCreated {
	return &TodoCreated{
		BaseEvent: domain.NewBaseEvent(todoID, AggregateType, RoutingKeyCreated, at),
		OwnerID:   ownerID,
		Text:      text,
		Date:      date,
	}
}

// TodoUpdated is emitted when a todo is edited.
type TodoUpdated struct {
	domain.BaseEvent
	Fields []string `json:"fields"`
}

// NewTodoUpdated creates a TodoUpdated event.
func NewTodoUpdated(todoID uuid.UUID, fields []string, at time.Time) *TodoUpdated {
	return &TodoUpdated{
		BaseEvent: domain.NewBaseEvent(todoID, AggregateType, RoutingKeyUpdated, at),
		Fields:    fields,
	}
}

// TodoCompletionToggled is emitted when a todo is marked complete or incomplete.
type TodoCompletionToggled struct {
	domain.BaseEvent
	IsComplete bool `json:"is_complete"`
}

// NewTodoCompletionToggled creates a TodoCompletionToggled event.
func NewTodoCompletionToggled(todoID uuid.UUID, isComplete bool, at time.Time) *TodoCompletionToggled {
	return &TodoCompletionToggled{
		BaseEvent:  domain.NewBaseEvent(todoID, AggregateType, RoutingKeyCompletionToggled, at),
		IsComplete: isComplete,
	}
}

// TodoDeleted is emitted when a todo is removed.
type TodoDeleted struct {
	domain.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
}

// NewTodoDeleted creates a TodoDeleted event.
func NewTodoDeleted(todoID, ownerID uuid.UUID, at time.Time) *TodoDeleted {
	return &TodoDeleted{
		BaseEvent: domain.NewBaseEvent(todoID, AggregateType, RoutingKeyDeleted, at),
		OwnerID:   ownerID,
	}
}
