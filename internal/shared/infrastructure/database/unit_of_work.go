package database

import (
	"context"
	"errors"
)

var errNoTx = errors.New("no transaction in context")

// UnitOfWork implements application.UnitOfWork for any registered driver.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a unit of work over conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

// Begin starts a transaction and stores it in the context.
// A transaction already in the context is joined rather than nested.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := txInfoFromContext(ctx); ok {
		return WithTx(ctx, info.tx, false), nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return WithTx(ctx, tx, true), nil
}

// Commit commits the transaction if this unit owns it.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	info, ok := txInfoFromContext(ctx)
	if !ok {
		return errNoTx
	}
	if !info.owned {
		return nil
	}
	return info.tx.Commit(ctx)
}

// Rollback rolls back the transaction if this unit owns it.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	info, ok := txInfoFromContext(ctx)
	if !ok {
		return errNoTx
	}
	if !info.owned {
		return nil
	}
	return info.tx.Rollback(ctx)
}
