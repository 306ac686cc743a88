package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrNoSourceURL is returned when a manifest's source is not an http(s) URL.
var ErrNoSourceURL = errors.New("manifest source is not an http(s) URL")

// SourceURL returns the manifest's source when it is an http or https URL.
func SourceURL(m *Manifest) (string, bool) {
	u, err := url.Parse(m.Source)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return m.Source, true
}

// SourceStatus is the outcome of one availability check.
type SourceStatus struct {
	URL       string
	Status    int // 0 on network error
	Err       string
	CheckedAt time.Time
}

// OK reports whether the source answered with a 2xx or 3xx status.
func (s SourceStatus) OK() bool { return s.Status >= 200 && s.Status < 400 }

// Checker periodically sends a HEAD request to the source URL declared in a
// catalog directory's manifest and logs whether it is still reachable.
type Checker struct {
	dir      string
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client

	// OnCheck, when set, receives every completed check.
	OnCheck func(SourceStatus)
}

// NewChecker creates a Checker for the catalog in dir.
func NewChecker(dir string, logger *slog.Logger, interval time.Duration) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		dir:      dir,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start runs an immediate check then repeats every interval until ctx is
// cancelled. It returns at once when the manifest declares no source URL.
func (c *Checker) Start(ctx context.Context) {
	if _, err := c.Check(ctx); errors.Is(err, ErrNoSourceURL) {
		c.logger.Info("source check disabled", "dir", c.dir, "reason", err)
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Check re-reads the manifest and probes its source once. The error is
// non-nil only when no check could be made.
func (c *Checker) Check(ctx context.Context) (SourceStatus, error) {
	m, err := LoadManifest(manifestPath(c.dir))
	if err != nil {
		c.logger.Error("source check: read manifest", "dir", c.dir, "error", err)
		return SourceStatus{}, err
	}
	u, ok := SourceURL(m)
	if !ok {
		return SourceStatus{}, fmt.Errorf("catalog %s: %w", m.ID, ErrNoSourceURL)
	}

	st := SourceStatus{URL: u, CheckedAt: time.Now()}
	st.Status, err = c.head(ctx, u)
	if err != nil {
		st.Err = err.Error()
	}

	if st.OK() {
		c.logger.Info("source reachable", "catalog", m.ID, "url", u, "status", st.Status)
	} else {
		c.logger.Warn("source unreachable",
			"catalog", m.ID,
			"url", u,
			"status", st.Status,
			"error", st.Err,
		)
	}
	if c.OnCheck != nil {
		c.OnCheck(st)
	}
	return st, nil
}

func (c *Checker) head(ctx context.Context, u string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", u, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
