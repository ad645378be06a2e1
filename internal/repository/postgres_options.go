package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresOptionStore persists options in a single name/value table. This is
// the write store (source of truth); layer CachedOptionStore on top when a
// Redis client is available.
type PostgresOptionStore struct {
	db *sql.DB
}

func NewPostgresOptionStore(db *sql.DB) *PostgresOptionStore {
	return &PostgresOptionStore{db: db}
}

// EnsureSchema creates the options table if it does not exist.
func (s *PostgresOptionStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS options (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create options table: %w", err)
	}
	return nil
}

func (s *PostgresOptionStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM options WHERE name = $1`
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get option %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresOptionStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO options (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set option %s: %w", key, err)
	}
	return nil
}

func (s *PostgresOptionStore) Delete(ctx context.Context, key string) (bool, error) {
	query := `DELETE FROM options WHERE name = $1`
	result, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete option %s: %w", key, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows > 0, nil
}
