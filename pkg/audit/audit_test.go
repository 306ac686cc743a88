package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	entries, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent on empty db: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries, got %d", len(entries))
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, q := range []string{"카페", "스시", "카"} {
		err := s.Record(ctx, Entry{
			Query:       q,
			Normalized:  q,
			Status:      "ok",
			ResultCount: i,
			Transport:   "http",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record(%q): %v", q, err)
		}
	}

	entries, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Query != "카" || entries[1].Query != "스시" {
		t.Errorf("order = %q, %q; want 카, 스시", entries[0].Query, entries[1].Query)
	}
	if entries[0].ID == "" {
		t.Error("expected generated id")
	}
	if !entries[1].CreatedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("CreatedAt = %v", entries[1].CreatedAt)
	}
}

func TestTopQueries(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	log := []struct{ q, status string }{
		{"카페", "ok"}, {"카페", "ok"}, {"카페", "ok"},
		{"zzzz", "no_match"}, {"zzzz", "no_match"},
		{"스시", "ok"},
		{"카", "too_short"}, {"카", "too_short"}, {"카", "too_short"}, {"카", "too_short"},
	}
	for _, l := range log {
		if err := s.Record(ctx, Entry{Query: l.q, Normalized: l.q, Status: l.status}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	top, err := s.TopQueries(ctx, 10)
	if err != nil {
		t.Fatalf("TopQueries: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("top = %+v, want 3 entries", top)
	}
	if top[0].Normalized != "카페" || top[0].Count != 3 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].Normalized != "zzzz" || top[1].NoMatch != 2 {
		t.Errorf("top[1] = %+v", top[1])
	}
}

func TestRecord_SharedRequestID(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Record(ctx, Entry{RequestID: "retry-1", Query: "카페", Normalized: "카페", Status: "ok"}); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if e.RequestID != "retry-1" {
			t.Errorf("RequestID = %q, want retry-1", e.RequestID)
		}
		if seen[e.ID] {
			t.Errorf("duplicate row id %s", e.ID)
		}
		seen[e.ID] = true
	}
}
