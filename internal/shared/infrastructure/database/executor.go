package database

import "context"

// Row is a single result row. *sql.Row and pgx.Row satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result cursor. *sql.Rows satisfies it directly.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the effect of a write. sql.Result satisfies it directly.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs statements written with '?' placeholders. Repositories obtain one
// through ExecutorFromContext so they join an open unit of work.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor bound to one database transaction.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled database handle.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}
