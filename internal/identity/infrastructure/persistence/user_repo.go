// Package persistence stores users and their todo reference lists.
package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/identity/domain"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLUserRepository implements domain.UserRepository on any database.Connection.
type SQLUserRepository struct {
	conn database.Connection
}

// NewSQLUserRepository creates a new user repository.
func NewSQLUserRepository(conn database.Connection) *SQLUserRepository {
	return &SQLUserRepository{conn: conn}
}

const userColumns = `id, name, username, email, password_hash, created_at, updated_at`

// Create inserts a user.
func (r *SQLUserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID().String(),
		u.Name().String(),
		u.Username().String(),
		u.Email().String(),
		u.PasswordHash(),
		database.FormatTime(u.CreatedAt()),
		database.FormatTime(u.UpdatedAt()),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return uniqueViolation(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// uniqueViolation maps an index violation to the matching domain error.
func uniqueViolation(err error) error {
	if strings.Contains(err.Error(), "username") {
		return domain.ErrUsernameTaken
	}
	return domain.ErrEmailTaken
}

// FindByID loads a user with its todo references.
func (r *SQLUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
}

// FindByEmail loads a user by its normalized email.
func (r *SQLUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email.String())
}

func (r *SQLUserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	var (
		id, name, username, email, hash string
		createdAt, updatedAt            string
	)
	err := exec.QueryRow(ctx, query, arg).Scan(&id, &name, &username, &email, &hash, &createdAt, &updatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse user id %q: %w", id, err)
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := database.ParseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	todoIDs, err := r.todoIDs(ctx, exec, userID)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateUser(userID, name, username, email, hash, created, updated, todoIDs), nil
}

func (r *SQLUserRepository) todoIDs(ctx context.Context, exec database.Executor, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := exec.Query(ctx, `
		SELECT todo_id FROM user_todos
		WHERE user_id = ?
		ORDER BY added_at, todo_id`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("select todo references: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan todo reference: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse todo reference %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ExistsByEmail reports whether an account uses email.
func (r *SQLUserRepository) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email.String())
}

// ExistsByUsername reports whether an account uses username.
func (r *SQLUserRepository) ExistsByUsername(ctx context.Context, username domain.Username) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username.String())
}

func (r *SQLUserRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var n int64
	if err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, arg).Scan(&n); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// Delete removes the user row. References are removed first so drivers without
// enforced cascades end in the same state.
func (r *SQLUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	if _, err := exec.Exec(ctx, `DELETE FROM user_todos WHERE user_id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete todo references: %w", err)
	}

	result, err := exec.Exec(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AttachTodo appends todoID to the user's reference list.
func (r *SQLUserRepository) AttachTodo(ctx context.Context, userID, todoID uuid.UUID, at time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO user_todos (user_id, todo_id, added_at)
		VALUES (?, ?, ?)`,
		userID.String(), todoID.String(), database.FormatTime(at),
	)
	if err != nil {
		return fmt.Errorf("attach todo %s: %w", todoID, err)
	}
	return nil
}

// DetachTodo removes todoID from the user's reference list. Missing references are ignored.
func (r *SQLUserRepository) DetachTodo(ctx context.Context, userID, todoID uuid.UUID) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		DELETE FROM user_todos WHERE user_id = ? AND todo_id = ?`,
		userID.String(), todoID.String(),
	)
	if err != nil {
		return fmt.Errorf("detach todo %s: %w", todoID, err)
	}
	return nil
}
