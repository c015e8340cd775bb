package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a new Postgres connection pool and verifies connectivity.
func New(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT ''
	);`

	_, err := pool.Exec(ctx, sqlStmt)
	return err
}
