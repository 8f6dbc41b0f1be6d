package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite handle used for account operations. All access goes
// through the server's single command processor, so the handle never sees
// concurrent statements.
type DB struct {
	sql *sql.DB
}

// New opens (creating if absent) the SQLite database at path.
func New(ctx context.Context, path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database %s: %w", path, err)
	}
	return &DB{sql: sqlDB}, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	return d.sql.Close()
}

// SQL returns the underlying database handle (for goose migrations).
func (d *DB) SQL() *sql.DB {
	return d.sql
}
