package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store backends selectable through DATABASE_URL.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Backend reports which store a connection string selects.
// An empty string selects the in-memory store.
func Backend(databaseURL string) (string, error) {
	switch {
	case databaseURL == "":
		return BackendMemory, nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return BackendPostgres, nil
	case strings.HasPrefix(databaseURL, "sqlite:"), strings.HasPrefix(databaseURL, "file:"):
		return BackendSQLite, nil
	}
	scheme, _, _ := strings.Cut(databaseURL, ":")
	return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedDatabaseURL, scheme)
}

// Open selects and opens the contact store for the process lifetime.
func Open(ctx context.Context, databaseURL string) (ContactRepository, error) {
	backend, err := Backend(databaseURL)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendPostgres:
		pool, err := NewPool(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPgContactRepository(pool), nil
	case BackendSQLite:
		return OpenSQLiteContactRepository(ctx, sqlitePath(databaseURL))
	default:
		return NewMemoryContactRepository(), nil
	}
}

// sqlitePath strips the sqlite scheme; file: URIs are passed to the driver as is.
func sqlitePath(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "file:") {
		return databaseURL
	}
	path := strings.TrimPrefix(databaseURL, "sqlite:")
	return strings.TrimPrefix(path, "//")
}
