package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSourceURL(t *testing.T) {
	tests := []struct {
		source string
		ok     bool
	}{
		{"https://example.org/ksic.csv", true},
		{"http://example.org/data", true},
		{"built-in", false},
		{"unit test", false},
		{"ftp://example.org/data.csv", false},
		{"", false},
	}
	for _, tt := range tests {
		if _, ok := SourceURL(&Manifest{Source: tt.source}); ok != tt.ok {
			t.Errorf("SourceURL(%q) ok = %v, want %v", tt.source, ok, tt.ok)
		}
	}
}

func sourceManifest(url string) string {
	return "id: remote\nversion: \"1\"\nsource: " + url + "\n"
}

func TestChecker_Check(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if r.URL.Path == "/gone.csv" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tests := []struct {
		path   string
		status int
		ok     bool
	}{
		{"/data.csv", http.StatusOK, true},
		{"/gone.csv", http.StatusNotFound, false},
	}
	for _, tt := range tests {
		dir := writeCatalog(t, sourceManifest(srv.URL+tt.path), "A1,l,m,s,\n")
		st, err := NewChecker(dir, nil, time.Hour).Check(context.Background())
		if err != nil {
			t.Fatalf("Check(%s): %v", tt.path, err)
		}
		if st.Status != tt.status || st.OK() != tt.ok {
			t.Errorf("Check(%s) = %+v, want status %d", tt.path, st, tt.status)
		}
	}
}

func TestChecker_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	dir := writeCatalog(t, sourceManifest(url+"/data.csv"), "")
	st, err := NewChecker(dir, nil, time.Hour).Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if st.Status != 0 || st.Err == "" || st.OK() {
		t.Errorf("status = %+v, want network failure", st)
	}
}

func TestChecker_NoSourceURL(t *testing.T) {
	dir := writeCatalog(t, testManifest, "")
	c := NewChecker(dir, nil, time.Millisecond)

	if _, err := c.Check(context.Background()); !errors.Is(err, ErrNoSourceURL) {
		t.Errorf("err = %v, want ErrNoSourceURL", err)
	}

	done := make(chan struct{})
	go func() {
		c.Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start kept running without a source URL")
	}
}

func TestChecker_StartRepeats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	dir := writeCatalog(t, sourceManifest(srv.URL+"/data.csv"), "")
	c := NewChecker(dir, nil, 10*time.Millisecond)
	checks := make(chan SourceStatus, 8)
	c.OnCheck = func(st SourceStatus) {
		select {
		case checks <- st:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx)

	for i := 0; i < 2; i++ {
		select {
		case st := <-checks:
			if !st.OK() {
				t.Errorf("check %d = %+v, want ok", i, st)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d checks ran", i)
		}
	}
}
