// Package history keeps a journal of what the bot suggested and how each
// cycle ended. The journal is an audit trail for /stats and /export; the
// live cycle state never reads from it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Event kinds recorded in the journal.
const (
	EventSuggested  = "suggested"
	EventTerminated = "terminated"
	EventRestarted  = "restarted"
	EventTabulated  = "tabulated"
)

// DB wraps sql.DB for the suggestion journal.
type DB struct {
	*sql.DB
}

// NewDB opens the journal at path and runs migrations.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS suggestion_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER NOT NULL,
			event TEXT NOT NULL,
			restaurant TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_chat ON suggestion_events(chat_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON suggestion_events(event)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// RecordEvent appends one journal entry. restaurant may be empty for
// events that aren't about a particular place.
func (db *DB) RecordEvent(ctx context.Context, chatID int64, event, restaurant string) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO suggestion_events (chat_id, event, restaurant) VALUES (?, ?, ?)",
		chatID, event, restaurant,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// RestaurantCount is one aggregate row for /stats.
type RestaurantCount struct {
	Restaurant string
	Count      int64
}

// TopSuggested returns the most-suggested restaurants, busiest first.
func (db *DB) TopSuggested(ctx context.Context, limit int) ([]RestaurantCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.QueryContext(ctx, `
		SELECT restaurant, COUNT(*) AS n
		FROM suggestion_events
		WHERE event = ? AND restaurant != ''
		GROUP BY restaurant
		ORDER BY n DESC, restaurant ASC
		LIMIT ?`,
		EventSuggested, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top suggested: %w", err)
	}
	defer rows.Close()

	var out []RestaurantCount
	for rows.Next() {
		var rc RestaurantCount
		if err := rows.Scan(&rc.Restaurant, &rc.Count); err != nil {
			return nil, fmt.Errorf("top suggested: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// EventCounts returns totals per event kind.
func (db *DB) EventCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT event, COUNT(*) FROM suggestion_events GROUP BY event",
	)
	if err != nil {
		return nil, fmt.Errorf("event counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var event string
		var n int64
		if err := rows.Scan(&event, &n); err != nil {
			return nil, fmt.Errorf("event counts: %w", err)
		}
		out[event] = n
	}
	return out, rows.Err()
}

// Entry is one raw journal row, as exported.
type Entry struct {
	ID         int64
	ChatID     int64
	Event      string
	Restaurant string
	CreatedAt  time.Time
}

// Entries returns journal rows in insertion order, newest capped by limit
// (0 = no cap).
func (db *DB) Entries(ctx context.Context, limit int) ([]Entry, error) {
	q := "SELECT id, chat_id, event, COALESCE(restaurant, ''), created_at FROM suggestion_events ORDER BY id"
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ChatID, &e.Event, &e.Restaurant, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
