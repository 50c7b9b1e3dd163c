// Package todo models a user's to-do item and the rules for changing it.
package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/google/uuid"
)

// MsgInvalidText is returned to callers when todo text is too short.
const MsgInvalidText = "Enter a valid todo"

// MinTextLength is counted after surrounding whitespace is trimmed.
const MinTextLength = 5

var ErrTodoNotFound = errors.New("todo not found")

// Todo is a single item on a user's list. The owner never changes.
type Todo struct {
	domain.BaseAggregateRoot
	ownerID    uuid.UUID
	text       string
	date       string
	isComplete bool
}

// NormalizeText trims text and enforces the minimum length.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinTextLength {
		return "", domain.NewValidationError("text", MsgInvalidText)
	}
	return text, nil
}

// DefaultDate renders now as D/M/YYYY without zero padding.
func DefaultDate(now time.Time) string {
	return fmt.Sprintf("%d/%d/%d", now.Day(), int(now.Month()), now.Year())
}

// NewTodo creates an incomplete todo. An empty date defaults to the day of now.
func NewTodo(ownerID uuid.UUID, text, date string, now time.Time) (*Todo, error) {
	text, err := NormalizeText(text)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = DefaultDate(now)
	}

	t := &Todo{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(now),
		ownerID:           ownerID,
		text:              text,
		date:              date,
	}

	t.AddDomainEvent(NewTodoCreated(t.ID(), ownerID, t.text, t.date, t.CreatedAt()))

	return t, nil
}

// RehydrateTodo recreates a todo from storage.
func RehydrateTodo(id, ownerID uuid.UUID, text, date string, isComplete bool, createdAt, updatedAt time.Time) *Todo {
	return &Todo{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(domain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		ownerID:           ownerID,
		text:              text,
		date:              date,
		isComplete:        isComplete,
	}
}

func (t *Todo) OwnerID() uuid.UUID { return t.ownerID }
func (t *Todo) Text() string       { return t.text }
func (t *Todo) Date() string       { return t.date }
func (t *Todo) IsComplete() bool   { return t.isComplete }

// EnsureOwnedBy returns domain.ErrNotAllowed unless userID owns the todo.
func (t *Todo) EnsureOwnedBy(userID uuid.UUID) error {
	if t.ownerID != userID {
		return domain.ErrNotAllowed
	}
	return nil
}

// Edit replaces the supplied fields. Nil fields keep their value; completion is untouched.
func (t *Todo) Edit(text, date *string, now time.Time) error {
	var fields []string

	if text != nil {
		normalized, err := NormalizeText(*text)
		if err != nil {
			return err
		}
		t.text = normalized
		fields = append(fields, "text")
	}
	if date != nil {
		t.date = *date
		fields = append(fields, "date")
	}

	if len(fields) == 0 {
		return nil
	}
	t.Touch(now)
	t.AddDomainEvent(NewTodoUpdated(t.ID(), fields, now))
	return nil
}

// ToggleComplete flips the completion flag.
func (t *Todo) ToggleComplete(now time.Time) {
	t.isComplete = !t.isComplete
	t.Touch(now)
	t.AddDomainEvent(NewTodoCompletionToggled(t.ID(), t.isComplete, now))
}

// MarkDeleted records the removal of the todo.
func (t *Todo) MarkDeleted(now time.Time) {
	t.AddDomainEvent(NewTodoDeleted(t.ID(), t.ownerID, now))
}
