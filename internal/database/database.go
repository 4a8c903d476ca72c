// Package database owns the PostgreSQL connection pool and schema versioning.
package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can also run a function inside a transaction.
type DB interface {
	Querier
	WithTx(ctx context.Context, fn func(q Querier) error) error
}

// Pool wraps a pgx connection pool.
type Pool struct {
	*pgxpool.Pool
}

// WithTx runs fn in a transaction, committing when fn returns nil.
func (p *Pool) WithTx(ctx context.Context, fn func(q Querier) error) error {
	return p.Pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		return fn(tx)
	})
}

var driverSuffix = regexp.MustCompile(`^(postgres(?:ql)?)\+[a-z0-9_]+://`)

// NormalizeDSN removes driver suffixes such as "+psycopg2" from the URL
// scheme, so connection strings written for other clients keep working.
func NormalizeDSN(dsn string) string {
	return driverSuffix.ReplaceAllString(dsn, "$1://")
}

// NewPool connects to PostgreSQL and verifies the connection.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(NormalizeDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// IsNoRows reports whether err means a query returned no rows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
