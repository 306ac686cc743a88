package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func fastRetries(t *testing.T) {
	t.Helper()
	old := fetchBackoff
	fetchBackoff = time.Millisecond
	t.Cleanup(func() { fetchBackoff = old })
}

func TestFetch_RetriesAndReplaces(t *testing.T) {
	fastRetries(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("code;large;medium;small;keywords\n" +
			"I21201;음식점업;비알코올 음료점업;카페;커피\n" +
			"I21202;음식점업;비알코올 음료점업;찻집;차\n"))
	}))
	defer srv.Close()

	dir := writeCatalog(t, testManifest,
		"code;large;medium;small;keywords\nI21201;음식점업;비알코올 음료점업;카페;커피\n")
	if _, err := Snapshot(dir); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	n, err := Fetch(context.Background(), srv.URL, dir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if n != 2 || calls.Load() != 3 {
		t.Errorf("records = %d, calls = %d; want 2, 3", n, calls.Load())
	}
	if _, err := os.Stat(filepath.Join(dir, "data.gob")); !os.IsNotExist(err) {
		t.Error("stale data.gob should be removed")
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := c.Lookup("I21202"); !ok {
		t.Error("expected I21202 after fetch")
	}
}

func TestFetch_InvalidDataKeepsCurrent(t *testing.T) {
	fastRetries(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("code;large;medium;small;keywords\nA1;l;m;dup;\nA1;l;m;dup;\n"))
	}))
	defer srv.Close()

	const current = "code;large;medium;small;keywords\nI21201;음식점업;비알코올 음료점업;카페;커피\n"
	dir := writeCatalog(t, testManifest, current)

	if _, err := Fetch(context.Background(), srv.URL, dir); err == nil {
		t.Fatal("expected error for duplicate codes")
	}
	data, _ := os.ReadFile(filepath.Join(dir, "data.csv"))
	if string(data) != current {
		t.Errorf("data.csv was modified: %q", data)
	}
}

func TestFetch_GivesUp(t *testing.T) {
	fastRetries(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := writeCatalog(t, testManifest, "code;large;medium;small;keywords\n")
	if _, err := Fetch(context.Background(), srv.URL, dir); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}
