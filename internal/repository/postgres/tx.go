package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

type txKey struct{}

// dbtx is the subset of *sqlx.DB and *sqlx.Tx the repositories use.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *sqlx.DB) dbtx {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

type txManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) repository.Transactor {
	return &txManager{db: db}
}

// WithinTx begins a transaction, or joins the one already bound to ctx.
func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// pqViolation returns the constraint named by a Postgres integrity error
// with the given SQLSTATE code.
func pqViolation(err error, code pq.ErrorCode) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == code {
		return pqErr.Constraint, true
	}
	return "", false
}
