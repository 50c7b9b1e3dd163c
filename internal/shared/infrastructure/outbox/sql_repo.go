package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/shared/application"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLRepository implements Repository on any database.Connection.
type SQLRepository struct {
	conn database.Connection
	uow  application.UnitOfWork
	now  func() time.Time
}

// NewSQLRepository creates an outbox repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{
		conn: conn,
		uow:  database.NewUnitOfWork(conn),
		now:  time.Now,
	}
}

const outboxColumns = `id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, published_at, retry_count, next_retry_at, last_error,
	dead_lettered_at, dead_letter_reason`

// Save stores a new outbox message.
func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	var metadata any
	if len(msg.Metadata) > 0 {
		metadata = string(msg.Metadata)
	}

	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		metadata,
		database.FormatTime(msg.CreatedAt),
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("insert outbox message %s: %w", msg.RoutingKey, err)
	}
	return nil
}

// SaveBatch stores multiple messages in one transaction, joining the caller's if present.
func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return application.WithUnitOfWork(ctx, r.uow, func(txCtx context.Context) error {
		for _, msg := range msgs {
			if err := r.Save(txCtx, msg); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetUnpublished retrieves messages due for publishing: not yet published, not dead,
// and past their retry time.
func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+outboxColumns+`
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY id
		LIMIT ?`,
		database.FormatTime(r.now()), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query unpublished outbox messages: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// MarkPublished marks a message as successfully published.
func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET published_at = ? WHERE id = ?`,
		database.FormatTime(r.now()), id,
	)
	return err
}

// MarkFailed records a publish failure with error message.
func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ? WHERE id = ?`,
		errMsg, database.FormatTime(nextRetryAt), id,
	)
	return err
}

// MarkDead marks a message as dead-lettered.
func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, dead_lettered_at = ?, dead_letter_reason = ? WHERE id = ?`,
		reason, database.FormatTime(r.now()), reason, id,
	)
	return err
}

// DeleteOld removes published messages older than the retention period.
func (r *SQLRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -olderThanDays)
	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`,
		database.FormatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("delete old outbox messages: %w", err)
	}
	return result.RowsAffected()
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		msg              Message
		eventID          string
		aggregateID      string
		payload          string
		metadata         sql.NullString
		createdAt        string
		publishedAt      sql.NullString
		nextRetryAt      sql.NullString
		lastError        sql.NullString
		deadLetteredAt   sql.NullString
		deadLetterReason sql.NullString
	)
	err := row.Scan(
		&msg.ID, &eventID, &msg.AggregateType, &aggregateID, &msg.EventType, &msg.RoutingKey,
		&payload, &metadata, &createdAt, &publishedAt, &msg.RetryCount, &nextRetryAt, &lastError,
		&deadLetteredAt, &deadLetterReason,
	)
	if err != nil {
		return nil, fmt.Errorf("scan outbox message: %w", err)
	}

	if msg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, fmt.Errorf("outbox message %d: event id: %w", msg.ID, err)
	}
	if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, fmt.Errorf("outbox message %d: aggregate id: %w", msg.ID, err)
	}
	if msg.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("outbox message %d: created_at: %w", msg.ID, err)
	}
	msg.Payload = []byte(payload)
	if metadata.Valid {
		msg.Metadata = []byte(metadata.String)
	}
	msg.PublishedAt = parseNullTime(publishedAt)
	msg.NextRetryAt = parseNullTime(nextRetryAt)
	msg.DeadLetteredAt = parseNullTime(deadLetteredAt)
	if lastError.Valid {
		msg.LastError = &lastError.String
	}
	if deadLetterReason.Valid {
		msg.DeadLetterReason = &deadLetterReason.String
	}
	return &msg, nil
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := database.ParseTime(s.String)
	if err != nil {
		return nil
	}
	return &t
}
