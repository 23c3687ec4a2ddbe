// Package store provides the SQLite database backing prefill's link history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// filePragmas are applied to on-disk databases. Links are written one at a
// time by a short-lived CLI, so a single WAL writer is enough.
var filePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
	path string
	mu   sync.RWMutex
}

// Open creates or opens the SQLite database at path, creating its directory.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return open(ctx, path, filePragmas)
}

// OpenInMemory creates an in-memory SQLite database for testing.
func OpenInMemory() (*DB, error) {
	return open(context.Background(), memoryPath, []string{"PRAGMA foreign_keys=ON"})
}

func open(ctx context.Context, path string, pragmas []string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// With more than one connection an in-memory database is not shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return &DB{DB: db, path: path}, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close checkpoints the WAL of on-disk databases and closes the connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.path != memoryPath {
		_, _ = db.DB.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	}

	return db.DB.Close()
}

// Migrate runs all pending database migrations.
func (db *DB) Migrate(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return runMigrations(ctx, db.DB)
}
