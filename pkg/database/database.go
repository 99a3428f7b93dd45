package database

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")

	return pool, nil
}

// EnsureSchema creates the refresh audit table if it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS refresh_audits (
			id UUID PRIMARY KEY,
			snapshot_id UUID NOT NULL,
			source_key TEXT NOT NULL,
			rows_read INT NOT NULL DEFAULT 0,
			inventory_rows INT NOT NULL DEFAULT 0,
			event_rows INT NOT NULL DEFAULT 0,
			coerced_quantities INT NOT NULL DEFAULT 0,
			undated_rows INT NOT NULL DEFAULT 0,
			warnings JSONB NOT NULL DEFAULT '[]',
			loaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}
