// Package audit keeps a log of category searches in SQLite. Only queries and
// their outcome are stored, never catalog contents.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Entry is one logged search.
type Entry struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id,omitempty"`
	Query       string    `json:"query"`
	Normalized  string    `json:"normalized"`
	Status      string    `json:"status"`
	ResultCount int       `json:"result_count"`
	TopCode     string    `json:"top_code,omitempty"`
	Transport   string    `json:"transport"`
	CreatedAt   time.Time `json:"created_at"`
}

// QueryCount is a normalized query with the number of times it was searched.
type QueryCount struct {
	Normalized string `json:"normalized"`
	Count      int    `json:"count"`
	NoMatch    int    `json:"no_match"`
}

// Store manages the search_log SQLite table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// search_log table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open search log: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS search_log (
		id           TEXT PRIMARY KEY,
		request_id   TEXT NOT NULL DEFAULT '',
		query        TEXT NOT NULL,
		normalized   TEXT NOT NULL,
		status       TEXT NOT NULL,
		result_count INTEGER NOT NULL,
		top_code     TEXT NOT NULL DEFAULT '',
		transport    TEXT NOT NULL DEFAULT '',
		created_at   INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS search_log_normalized ON search_log(normalized);
	CREATE INDEX IF NOT EXISTS search_log_request_id ON search_log(request_id)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create search_log table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts e. A missing ID or timestamp is filled in. Several rows may
// share a RequestID; the ID must be unique.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = ulid.Make().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_log (id, request_id, query, normalized, status, result_count, top_code, transport, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RequestID, e.Query, e.Normalized, e.Status, e.ResultCount, e.TopCode, e.Transport, e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record search %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns the n most recent searches, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, request_id, query, normalized, status, result_count,
		top_code, transport, created_at
		FROM search_log ORDER BY created_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Query, &e.Normalized, &e.Status, &e.ResultCount,
			&e.TopCode, &e.Transport, &created); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TopQueries returns the n most frequent normalized queries. Queries rejected
// as too short are left out.
func (s *Store) TopQueries(ctx context.Context, n int) ([]QueryCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT normalized, COUNT(*) AS c,
		SUM(CASE WHEN status = 'no_match' THEN 1 ELSE 0 END)
		FROM search_log WHERE status != 'too_short'
		GROUP BY normalized ORDER BY c DESC, normalized ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	defer rows.Close()

	var out []QueryCount
	for rows.Next() {
		var qc QueryCount
		if err := rows.Scan(&qc.Normalized, &qc.Count, &qc.NoMatch); err != nil {
			return nil, fmt.Errorf("scan top query: %w", err)
		}
		out = append(out, qc)
	}
	return out, rows.Err()
}
