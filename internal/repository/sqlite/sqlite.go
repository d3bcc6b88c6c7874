// Package sqlite implements the repository interfaces on SQLite.
//
// The store is treated as a plain record store: single-statement writes are
// atomic, but multi-record operations (the topic-delete cascade) are NOT run
// in a transaction — a crash mid-cascade can leave orphaned child rows. That
// limitation is deliberate and documented at the service layer; the
// repository only provides the per-collection primitives.
//
// Parent links (subtopics.topic_id, snippets.subtopic_id) are intentionally
// declared WITHOUT foreign key constraints: the two delete paths want
// different child behaviour (full delete vs unlink), and both are enforced in
// application code.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository interfaces.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
//
// busy_timeout and foreign_keys are per-connection settings, so they ride in
// the DSN where the driver re-applies them to every connection the pool
// opens. Running them once with Exec would configure a single pooled
// connection and leave the rest with busy_timeout=0, turning the concurrent
// delete+unlink pair on subtopic deletion into SQLITE_BUSY failures.
// WAL lets reads proceed during a write; busy_timeout makes a second writer
// wait instead of failing.
func New(dbPath string) (*DB, error) {
	dsn := dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection, so the pool must be
	// pinned to one connection or each query may see a different database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			full_name  TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS topics (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			user_id    TEXT NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_topics_user_id ON topics(user_id);

		CREATE TABLE IF NOT EXISTS subtopics (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			topic_id   TEXT,
			user_id    TEXT NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(user_id, title)
		);
		CREATE INDEX IF NOT EXISTS idx_subtopics_user_id ON subtopics(user_id);
		CREATE INDEX IF NOT EXISTS idx_subtopics_topic_id ON subtopics(topic_id);

		CREATE TABLE IF NOT EXISTS snippets (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			image       TEXT NOT NULL DEFAULT '',
			content     TEXT NOT NULL DEFAULT '',
			subtopic_id TEXT,
			user_id     TEXT NOT NULL REFERENCES users(id),
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_user_id ON snippets(user_id);
		CREATE INDEX IF NOT EXISTS idx_snippets_subtopic_id ON snippets(subtopic_id);
		CREATE INDEX IF NOT EXISTS idx_snippets_updated_at ON snippets(updated_at);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces constraint errors as plain error strings, so we
// match on the stable "UNIQUE constraint failed" prefix SQLite emits.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullable converts an optional parent-link value to its SQL form: empty
// string becomes NULL so "no parent" is absent, not "".
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
