package datastore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createCollectionsTable = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertCollection = `
INSERT INTO collections (name, data, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

// PostgresBackend stores collection documents in a PostgreSQL JSONB column.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and creates the collections table if needed.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres driver")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createCollectionsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create collections table: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

func (b *PostgresBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	var data string
	err := b.pool.QueryRow(ctx, `SELECT data::text FROM collections WHERE name = $1`, collection).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return []byte(data), nil
}

func (b *PostgresBackend) Write(ctx context.Context, collection string, data []byte) error {
	_, err := b.pool.Exec(ctx, upsertCollection, collection, string(data))
	return err
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
