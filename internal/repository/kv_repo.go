package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type PostgresKV struct {
	db DBTX
}

func NewPostgresKV(db DBTX) *PostgresKV {
	return &PostgresKV{db: db}
}

func (r *PostgresKV) Load(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`
	var value string
	if err := r.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *PostgresKV) Save(ctx context.Context, key string, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, key, value)
	return err
}

func (r *PostgresKV) Delete(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	return err
}
