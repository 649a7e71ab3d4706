// Package dbx holds the small database/sql abstractions shared by the
// repositories: DBTX (satisfied by *sql.DB and *sql.Tx), WithTx for running a
// unit of work in a transaction, and helpers that bound and classify single
// storage calls.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction and hands it to fn. The transaction is committed
// when fn returns nil and rolled back when fn returns an error or panics.
// Panics are re-raised after the rollback.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := messages.NewPostgresRepository(tx, timeout)
//	    _, err := repo.Update(ctx, msg)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return StorageError("tx.begin", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = StorageError("tx.commit", cerr)
		}
	}()

	err = fn(ctx, tx)
	return err
}
