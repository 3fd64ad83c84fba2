// Package sqlstore implements storage.Store on top of database/sql.
// The SQL is shared between backends; a Dialect carries the differences.
// Use the sqlite or postgres packages to construct one.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/tabungan/internal/storage"
)

// Ensure SQLStore implements storage.Store
var _ storage.Store = (*SQLStore)(nil)

// Dialect describes how a database differs from the SQL written in this package.
type Dialect struct {
	// Name is used in error messages and logs.
	Name string

	// Schema is executed statement by statement on startup.
	Schema []string

	// Rebind converts '?' placeholders into the driver's syntax. Nil keeps them.
	Rebind func(query string) string

	// LockClause is appended to the SELECT that guards a withdrawal, e.g. " FOR UPDATE".
	LockClause string

	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation func(err error) bool
}

// SQLStore implements storage.Store using a *sql.DB.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New wraps an open database and runs the dialect's schema.
// The store takes ownership of db and closes it on Close.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if dialect.Rebind == nil {
		dialect.Rebind = func(q string) string { return q }
	}
	if dialect.IsUniqueViolation == nil {
		dialect.IsUniqueViolation = func(error) bool { return false }
	}

	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to run %s migrations: %w", dialect.Name, err)
		}
	}

	return &SQLStore{db: db, dialect: dialect}, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Ping checks the database is reachable. Used by the health endpoint.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// q rebinds a query for the current dialect.
func (s *SQLStore) q(query string) string {
	return s.dialect.Rebind(query)
}

// withTx runs fn inside a database transaction, committing if fn returns nil.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
