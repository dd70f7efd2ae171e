package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// PostgresStore implements a record store on a PostgreSQL table with BYTEA
// key and value columns.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresStore connects to PostgreSQL with the given DSN and ensures the
// records table exists.
func NewPostgresStore(ctx context.Context, dsn string, log *slog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	s := &PostgresStore{pool: pool, log: log}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS records (
            key   BYTEA PRIMARY KEY,
            value BYTEA NOT NULL
        )`)
	if err != nil {
		return fmt.Errorf("failed to ensure records table: %w", err)
	}
	return nil
}

// Exists reports whether a row is stored for key.
func (s *PostgresStore) Exists(ctx context.Context, key []byte) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM records WHERE key=$1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return exists, nil
}

// Get retrieves the value stored at key.
func (s *PostgresStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM records WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interfaces.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return value, nil
}

// Put stores value at key, creating or overwriting the row.
func (s *PostgresStore) Put(ctx context.Context, key, value []byte) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO records (key, value)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE
          SET value = EXCLUDED.value
    `, key, value)
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return nil
}

// Length returns the stored value's byte length, or 0 if absent.
func (s *PostgresStore) Length(ctx context.Context, key []byte) (uint64, error) {
	var length uint64
	err := s.pool.QueryRow(ctx,
		`SELECT octet_length(value) FROM records WHERE key=$1`, key).Scan(&length)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	return length, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
