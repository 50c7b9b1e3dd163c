// Package persistence stores todos.
package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tasklist/internal/todos/domain/todo"
	"github.com/google/uuid"
)

// SQLTodoRepository implements todo.Repository on any database.Connection.
type SQLTodoRepository struct {
	conn database.Connection
}

// NewSQLTodoRepository creates a new todo repository.
func NewSQLTodoRepository(conn database.Connection) *SQLTodoRepository {
	return &SQLTodoRepository{conn: conn}
}

const todoColumns = `id, user_id, text, date, is_complete, created_at, updated_at`

// Create inserts a todo.
func (r *SQLTodoRepository) Create(ctx context.Context, t *todo.Todo) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO todos (`+todoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID().String(),
		t.OwnerID().String(),
		t.Text(),
		t.Date(),
		t.IsComplete(),
		database.FormatTime(t.CreatedAt()),
		database.FormatTime(t.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// Update writes the mutable fields of a todo.
func (r *SQLTodoRepository) Update(ctx context.Context, t *todo.Todo) error {
	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		UPDATE todos SET text = ?, date = ?, is_complete = ?, updated_at = ?
		WHERE id = ?`,
		t.Text(),
		t.Date(),
		t.IsComplete(),
		database.FormatTime(t.UpdatedAt()),
		t.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("update todo %s: %w", t.ID(), err)
	}
	return requireAffected(result, t.ID())
}

// FindByID loads a todo.
func (r *SQLTodoRepository) FindByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ?`, id.String())

	t, err := scanTodo(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, todo.ErrTodoNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindByOwner lists the owner's todos in creation order.
func (r *SQLTodoRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*todo.Todo, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+todoColumns+` FROM todos
		WHERE user_id = ?
		ORDER BY created_at, id`, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*todo.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

// Delete removes a todo.
func (r *SQLTodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	if _, err := exec.Exec(ctx, `DELETE FROM user_todos WHERE todo_id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete todo references: %w", err)
	}
	result, err := exec.Exec(ctx, `DELETE FROM todos WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	return requireAffected(result, id)
}

// DeleteByOwner removes all todos of ownerID.
func (r *SQLTodoRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	if _, err := exec.Exec(ctx, `
		DELETE FROM user_todos
		WHERE todo_id IN (SELECT id FROM todos WHERE user_id = ?)`, ownerID.String()); err != nil {
		return 0, fmt.Errorf("delete todo references: %w", err)
	}
	result, err := exec.Exec(ctx, `DELETE FROM todos WHERE user_id = ?`, ownerID.String())
	if err != nil {
		return 0, fmt.Errorf("delete todos of %s: %w", ownerID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete todos of %s: %w", ownerID, err)
	}
	return n, nil
}

func requireAffected(result database.Result, id uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for todo %s: %w", id, err)
	}
	if n == 0 {
		return todo.ErrTodoNotFound
	}
	return nil
}

func scanTodo(row database.Row) (*todo.Todo, error) {
	var (
		id, ownerID, text, date string
		isComplete              bool
		createdAt, updatedAt    string
	)
	if err := row.Scan(&id, &ownerID, &text, &date, &isComplete, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	todoID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse todo id %q: %w", id, err)
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("parse owner id %q: %w", ownerID, err)
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := database.ParseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return todo.RehydrateTodo(todoID, owner, text, date, isComplete, created, updated), nil
}
