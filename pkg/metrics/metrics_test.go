package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesCollectors(t *testing.T) {
	Register()
	Register() // idempotent

	ObserveSearch("ok", "http", 3*time.Millisecond)
	SetCatalogRecords(20)
	IncReload(true)
	IncReload(false)
	SetSourceUp(true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	for _, want := range []string{
		`catmatch_searches_total{status="ok",transport="http"}`,
		`catmatch_search_duration_seconds_bucket`,
		`catmatch_catalog_records 20`,
		`catmatch_catalog_reloads_total{result="error"} 1`,
		`catmatch_catalog_source_up 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
