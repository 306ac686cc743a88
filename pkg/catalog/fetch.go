package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

var (
	fetchAttempts = 3
	fetchBackoff  = time.Second
	fetchClient   = &http.Client{Timeout: 2 * time.Minute}
)

// Fetch downloads the data file of the catalog in dir from url, retrying
// transient failures. The download must parse with the manifest's format and
// form a valid catalog before it replaces the current data file; a stale
// data.gob snapshot is removed. It returns the number of records fetched.
func Fetch(ctx context.Context, url, dir string) (int, error) {
	m, err := LoadManifest(manifestPath(dir))
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, ".fetch-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := download(ctx, url, tmpPath); err != nil {
		return 0, err
	}

	records, err := LoadCSV(tmpPath, m.Format)
	if err != nil {
		return 0, fmt.Errorf("fetched data for %s: %w", m.ID, err)
	}
	if _, err := New(m.ID, m.Version, records, m.Synonyms); err != nil {
		return 0, fmt.Errorf("fetched data for %s: %w", m.ID, err)
	}

	if err := os.Rename(tmpPath, filepath.Join(dir, m.DataFile)); err != nil {
		return 0, fmt.Errorf("replace data file: %w", err)
	}
	if err := os.Remove(filepath.Join(dir, gobFile)); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("remove stale snapshot: %w", err)
	}
	return len(records), nil
}

// download writes url to dest, retrying with exponential backoff.
func download(ctx context.Context, url, dest string) error {
	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchBackoff << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		resp, err := fetchClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			continue
		}

		f, err := os.Create(dest)
		if err != nil {
			resp.Body.Close()
			return fmt.Errorf("create file: %w", err)
		}
		_, copyErr := io.Copy(f, resp.Body)
		resp.Body.Close()
		closeErr := f.Close()
		if copyErr != nil {
			lastErr = copyErr
			continue
		}
		if closeErr != nil {
			return closeErr
		}
		return nil
	}
	return fmt.Errorf("download %s failed after %d attempts: %w", url, fetchAttempts, lastErr)
}
