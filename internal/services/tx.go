package services

import (
	"context"
	"database/sql"
	"fmt"

	"techdesk_backend/internal/database"
	"techdesk_backend/internal/mirror"
	"techdesk_backend/internal/repositories"
)

// ConnProvider hands out the connection leased for the current request.
// *database.Pool satisfies it.
type ConnProvider interface {
	Acquire(ctx context.Context) (*database.Lease, error)
}

// RecordMirror is the write side of the text mirror. Calls never fail.
type RecordMirror interface {
	Create(table string, record mirror.Record, fields []string)
	Update(table string, key any, record mirror.Record, fields []string, keyField ...string)
	Delete(table string, key any, fields []string, keyField ...string)
}

// withConn runs fn on the request's leased connection.
func withConn(ctx context.Context, pool ConnProvider, fn func(exec repositories.SQLExecutor) error) error {
	lease, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()
	return fn(lease)
}

// withTx runs fn inside one transaction on the leased connection.
// Any error from fn rolls the whole transaction back.
func withTx(ctx context.Context, pool ConnProvider, fn func(tx *sql.Tx) error) error {
	return withTxOptions(ctx, pool, nil, fn)
}

// snapshotTx reads every statement from the same committed state.
var snapshotTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

func withTxOptions(ctx context.Context, pool ConnProvider, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	lease, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()

	tx, err := lease.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", repositories.ErrDatabaseError, err)
	}
	defer tx.Rollback() // Rollback is a no-op if tx has been committed.

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", repositories.ErrDatabaseError, err)
	}
	return nil
}
