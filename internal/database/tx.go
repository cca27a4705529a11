// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tx.go provides the unit-of-work hook for the relational backend. A
// caller wraps multiple repository calls in WithinTx; each repository
// method resolves its query handle from the context first and therefore
// joins the transaction automatically. The document store has no
// multi-statement transactions, so this exists only on the PostgreSQL
// path.
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories query
// through.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// WithinTx executes fn inside a single database transaction. The
// transaction handle is stored in the context passed to fn; repository
// methods pick it up via Querier. The transaction commits when fn
// returns nil and rolls back otherwise (or when fn panics).
func WithinTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	done := false
	defer func() {
		if !done {
			tx.Rollback()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	done = true
	return nil
}

// Querier returns the transaction handle carried by ctx, or db when the
// caller is not inside a unit of work.
func Querier(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// InTx reports whether ctx carries a transaction handle. Repository
// methods that write multiple tables use this to avoid opening a nested
// transaction when the caller already started a unit of work.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}
