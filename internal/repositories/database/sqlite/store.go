// Package sqlite implements the repository ports on an embedded SQLite
// database (modernc.org/sqlite, no cgo). Timestamps are stored as unix
// milliseconds and money as decimal text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewRepositoryProvider wires every sqlite repository onto db.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         &userRepo{db: db},
		RefreshTokenRepo: &refreshTokenRepo{db: db},
	}
}

// withTx executes fn within a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(q querier) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqlErr *moderncsqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	code := sqlErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
