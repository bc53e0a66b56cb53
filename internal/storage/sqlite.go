package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Tiliavir/trivial-time-clock/internal/model"
	"github.com/Tiliavir/trivial-time-clock/internal/timecalc"
)

// migrations is re-run on every open; each statement must be idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL
		            CHECK(kind IN ('CLOCK_IN','BREAK_START','BREAK_END','CLOCK_OUT','REMOTE_START','REMOTE_END')),
		occurred_at TEXT NOT NULL,
		local_date  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_local_date ON events(local_date)`,
}

// SQLiteStore keeps events in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens the database at path, creating it and applying migrations
// as needed. Pass ":memory:" for an in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, e model.Event) error {
	query := `INSERT INTO events (id, kind, occurred_at, local_date) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		string(e.Kind),
		e.Timestamp.Format(time.RFC3339Nano),
		timecalc.DateKey(e.Timestamp),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, occurred_at FROM events`)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *SQLiteStore) ListRange(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	query := `SELECT id, kind, occurred_at FROM events WHERE local_date BETWEEN ? AND ?`
	rows, err := s.db.QueryContext(ctx, query, timecalc.DateKey(from), timecalc.DateKey(to))
	if err != nil {
		return nil, fmt.Errorf("listing events in range: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clearing events: %w", err)
	}
	return nil
}

// WatchRoot returns the directory holding the database and its WAL file.
func (s *SQLiteStore) WatchRoot() string {
	if s.path == ":memory:" {
		return ""
	}
	return filepath.Dir(s.path)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var id, kind, occurredAt string
		if err := rows.Scan(&id, &kind, &occurredAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("event %s: parsing timestamp %q: %w", id, occurredAt, err)
		}
		k := model.Kind(kind)
		if !k.Valid() {
			return nil, fmt.Errorf("event %s: %w: %q", id, model.ErrUnknownKind, kind)
		}
		events = append(events, model.Event{ID: id, Timestamp: ts, Kind: k})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
