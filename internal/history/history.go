// Package history records a local, append-only log of dispatched commands
// and bookmark mutations to a sqlite database, for operator-side auditing.
// This is supplemental to the core protocol: nothing reads it back over the
// WebSocket connection today, but it gives every command a durable trace.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB is a thin wrapper around a single-connection sqlite handle.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if necessary) the history database at path and runs
// its migration. Mirrors the teacher's sqlite idiom: a single connection
// (sqlite does not benefit from a pool for a single local writer), WAL mode,
// and a busy timeout so a write that finds the database locked waits
// instead of failing at once.
func Open(path string) (*DB, error) {
	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	sdb.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := sdb.Exec(p); err != nil {
			sdb.Close()
			return nil, fmt.Errorf("history db pragma %q: %w", p, err)
		}
	}

	db := &DB{sql: sdb}
	if err := db.migrate(); err != nil {
		sdb.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.sql.Exec(`
		CREATE TABLE IF NOT EXISTS command_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			command    TEXT NOT NULL,
			frame      TEXT NOT NULL,
			cwd        TEXT NOT NULL,
			outcome    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_command_log_created_at ON command_log(created_at);

		CREATE TABLE IF NOT EXISTS bookmark_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			action     TEXT NOT NULL,
			name       TEXT NOT NULL,
			path       TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("history db migrate: %w", err)
	}
	return nil
}

// LogCommand appends one dispatched-command record.
func (db *DB) LogCommand(ctx context.Context, command, frame, cwd, outcome string) error {
	_, err := db.sql.ExecContext(ctx,
		`INSERT INTO command_log (command, frame, cwd, outcome, created_at) VALUES (?, ?, ?, ?, ?)`,
		command, frame, cwd, outcome, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("log command: %w", err)
	}
	return nil
}

// LogBookmark appends one bookmark-mutation record.
func (db *DB) LogBookmark(ctx context.Context, action, name, path string) error {
	_, err := db.sql.ExecContext(ctx,
		`INSERT INTO bookmark_log (action, name, path, created_at) VALUES (?, ?, ?, ?)`,
		action, name, path, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("log bookmark: %w", err)
	}
	return nil
}

// Prune deletes command_log and bookmark_log rows older than olderThan,
// called once at startup against the configured retention window.
func (db *DB) Prune(ctx context.Context, olderThan time.Time) error {
	if _, err := db.sql.ExecContext(ctx, `DELETE FROM command_log WHERE created_at < ?`, olderThan); err != nil {
		return fmt.Errorf("prune command_log: %w", err)
	}
	if _, err := db.sql.ExecContext(ctx, `DELETE FROM bookmark_log WHERE created_at < ?`, olderThan); err != nil {
		return fmt.Errorf("prune bookmark_log: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.sql.Close() }
