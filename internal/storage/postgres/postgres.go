// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/mmynk/tabungan/internal/storage/sqlstore"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Dialect is the PostgreSQL flavour of the shared SQL store.
var Dialect = sqlstore.Dialect{
	Name:              "postgres",
	Schema:            schema,
	Rebind:            Rebind,
	LockClause:        " FOR UPDATE",
	IsUniqueViolation: isUniqueViolation,
}

// New connects to the database at dsn and runs migrations.
func New(ctx context.Context, dsn string) (*sqlstore.SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store, err := sqlstore.New(ctx, db, Dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Rebind rewrites '?' placeholders to PostgreSQL's $1, $2, ...
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
