// Package store provides SQLite-backed storage for dungeon content: dungeons,
// encounters and their abilities.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps a sql.DB connection to the healerguide SQLite database.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database file at dbPath, creating its directory
// if needed, and migrates it to the current schema.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	// Foreign keys and the busy timeout are per-connection, so they ride on
	// the DSN and reach every pooled connection.
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	return open(dsn, 0, "PRAGMA journal_mode=WAL")
}

// OpenInMemory opens a migrated in-memory database. Each connection to
// ":memory:" is its own database, so the pool is pinned to one connection.
func OpenInMemory() (*DB, error) {
	return open(":memory:", 1, "PRAGMA foreign_keys=ON")
}

func open(dsn string, maxConns int, pragmas ...string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Wrap returns a DB around an existing connection without running
// migrations. The caller owns the schema.
func Wrap(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB for advanced queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
