// Package journal persists injected faults in SQLite so demo sessions
// leave a queryable record of every anomaly the chaos layer produced.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one injected fault.
type Entry struct {
	ID         string
	Time       time.Time
	Category   string
	Tool       string
	StatusCode string
	Message    string
	Session    string
}

// NewEntry builds an Entry with a fresh id and timestamp.
func NewEntry(category, tool, statusCode, message string) Entry {
	return Entry{
		ID:         uuid.NewString(),
		Time:       time.Now().UTC(),
		Category:   category,
		Tool:       tool,
		StatusCode: statusCode,
		Message:    message,
	}
}

// Filter narrows a List query. Zero values match everything.
type Filter struct {
	Category string
	Tool     string
	Session  string
	Limit    int
}

// Store persists fault entries in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a journal database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return NewStore(db)
}

// NewStore wraps an existing database handle and ensures schema.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if err := ensureFaultSchema(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a single fault entry.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fault_events (
			id, category, tool, status_code, message, session, injected_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Category,
		entry.Tool,
		entry.StatusCode,
		entry.Message,
		entry.Session,
		entry.Time.UTC(),
	)
	return err
}

// List returns fault entries matching the filter, oldest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, error) {
	query := `
		SELECT id, category, tool, status_code, message, session, injected_at
		FROM fault_events
	`
	var args []any
	where := ""
	addFilter := func(clause string, value any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, value)
	}
	if filter.Category != "" {
		addFilter("category = ?", filter.Category)
	}
	if filter.Tool != "" {
		addFilter("tool = ?", filter.Tool)
	}
	if filter.Session != "" {
		addFilter("session = ?", filter.Session)
	}
	query += where + " ORDER BY injected_at ASC, rowid ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry    Entry
			injected sql.NullTime
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.Category,
			&entry.Tool,
			&entry.StatusCode,
			&entry.Message,
			&entry.Session,
			&injected,
		); err != nil {
			return nil, err
		}
		if injected.Valid {
			entry.Time = injected.Time
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func ensureFaultSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS fault_events (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			tool TEXT NOT NULL,
			status_code TEXT,
			message TEXT NOT NULL,
			session TEXT,
			injected_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_fault_events_category ON fault_events(category);
		CREATE INDEX IF NOT EXISTS idx_fault_events_tool ON fault_events(tool);
		CREATE INDEX IF NOT EXISTS idx_fault_events_session ON fault_events(session);
	`)
	return err
}
