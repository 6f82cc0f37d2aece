package history

import (
	"fmt"
	"time"
)

// Event kinds.
const (
	KindMoved   = "file_moved"
	KindRenamed = "file_renamed"
)

// Event is one completed file action.
type Event struct {
	ID       int64     `json:"id"`
	Kind     string    `json:"kind"`
	Name     string    `json:"name"`
	FromPath string    `json:"from_path"`
	ToPath   string    `json:"to_path"`
	At       time.Time `json:"at"`
}

// Recorder is the activity-log interface consumed by the organizer and
// the API, so tests can substitute an in-memory fake.
type Recorder interface {
	Record(e Event) error
	Recent(limit int) ([]Event, error)
	Close() error
}

// Verify *DB satisfies Recorder at compile time.
var _ Recorder = (*DB)(nil)

// Record appends one event.
func (db *DB) Record(e Event) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := db.conn.Exec(
		`INSERT INTO events (kind, name, from_path, to_path, at) VALUES (?, ?, ?, ?, ?)`,
		e.Kind, e.Name, e.FromPath, e.ToPath, at,
	)
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Recent returns the newest events, newest first.
func (db *DB) Recent(limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := db.conn.Query(
		`SELECT id, kind, name, from_path, to_path, at FROM events ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Kind, &e.Name, &e.FromPath, &e.ToPath, &e.At); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
