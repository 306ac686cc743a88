// Package metrics exposes Prometheus counters for searches and catalog reloads.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catmatch",
		Name:      "searches_total",
		Help:      "Total number of category searches by outcome and transport",
	}, []string{"status", "transport"})
	searchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catmatch",
		Name:      "search_duration_seconds",
		Help:      "Histogram of search latency in seconds by transport",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12), // 50µs up to ~100ms
	}, []string{"transport"})
	catalogRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "catmatch",
		Name:      "catalog_records",
		Help:      "Number of records in the loaded catalog",
	})
	catalogSourceUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "catmatch",
		Name:      "catalog_source_up",
		Help:      "1 when the catalog's source URL answered the last check, else 0",
	})
	catalogReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catmatch",
		Name:      "catalog_reloads_total",
		Help:      "Catalog reload attempts by result",
	}, []string{"result"})
)

// Register adds the collectors to the default Prometheus registry (idempotent).
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(searches, searchDuration, catalogRecords, catalogSourceUp, catalogReloads)
	})
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// ObserveSearch counts one search and records its latency.
func ObserveSearch(status, transport string, d time.Duration) {
	searches.WithLabelValues(status, transport).Inc()
	searchDuration.WithLabelValues(transport).Observe(d.Seconds())
}

// SetCatalogRecords sets the size of the loaded catalog.
func SetCatalogRecords(n int) { catalogRecords.Set(float64(n)) }

// IncReload counts a catalog reload attempt.
func IncReload(ok bool) {
	if ok {
		catalogReloads.WithLabelValues("ok").Inc()
		return
	}
	catalogReloads.WithLabelValues("error").Inc()
}

// SetSourceUp records the outcome of the last catalog source check.
func SetSourceUp(up bool) {
	if up {
		catalogSourceUp.Set(1)
		return
	}
	catalogSourceUp.Set(0)
}
