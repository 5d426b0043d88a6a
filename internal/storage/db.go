// Package storage opens the device-local CardIQ database.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cardiq/internal/filex"
	"github.com/dmitrijs2005/cardiq/internal/migrations"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// DSN turns a database file path into a modernc DSN with foreign keys on,
// which the cascade deletes rely on, and a busy timeout.
func DSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Open opens the database at path and applies pending migrations. A leading
// "~/" is expanded and missing parent directories are created.
// The pool is limited to one connection: SQLite has a single writer.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	path, err := filex.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
