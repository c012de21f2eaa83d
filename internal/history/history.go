// Package history persists per-file flow outcomes to a local sqlite
// database so past batch runs stay inspectable.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the sqlite database holding flow events.
type Store struct {
	conn *sql.DB
	path string
}

// DefaultPath returns ~/.seshat/seshat.db, creating the directory if needed.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(home, ".seshat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "seshat.db"), nil
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS flow_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	path TEXT NOT NULL,
	status TEXT NOT NULL,
	detail TEXT
);
CREATE INDEX IF NOT EXISTS idx_flow_events_ts ON flow_events(ts);
`

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// RecordFlowEvent appends one per-file outcome.
func (s *Store) RecordFlowEvent(path, status, detail string) error {
	ts := time.Now().UTC().Format(time.RFC3339)
	_, err := s.conn.Exec(
		"INSERT INTO flow_events (ts, path, status, detail) VALUES (?, ?, ?, ?)",
		ts, path, status, detail,
	)
	if err != nil {
		return fmt.Errorf("insert flow event: %w", err)
	}
	return nil
}

// Event is one recorded flow outcome.
type Event struct {
	ID     int    `json:"id"`
	TS     string `json:"ts"`
	Path   string `json:"path"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Recent returns the latest events, newest first.
func (s *Store) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.Query(
		"SELECT id, ts, path, status, COALESCE(detail, '') FROM flow_events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query flow events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Path, &e.Status, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan flow event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
