package database

import "context"

type txKey struct{}

// txInfo is the transaction carried in a context plus whether this scope started it.
type txInfo struct {
	tx    Transaction
	owned bool
}

// WithTx stores a transaction in the context. Only the owning scope commits or rolls back.
func WithTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	return context.WithValue(ctx, txKey{}, txInfo{tx: tx, owned: owned})
}

// TxFromContext returns the transaction in ctx, or nil.
func TxFromContext(ctx context.Context) Transaction {
	info, ok := txInfoFromContext(ctx)
	if !ok {
		return nil
	}
	return info.tx
}

func txInfoFromContext(ctx context.Context) (txInfo, bool) {
	info, ok := ctx.Value(txKey{}).(txInfo)
	if !ok || info.tx == nil {
		return txInfo{}, false
	}
	return info, true
}

// ExecutorFromContext returns the transaction if present, otherwise the connection.
// Repositories call it on every statement so they join an open unit of work.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}
