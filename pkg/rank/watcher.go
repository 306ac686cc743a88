package rank

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher reloads a Registry when files in its catalog directory change.
type Watcher struct {
	reg      *Registry
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	// OnReload, when set, receives the outcome of every reload attempt.
	OnReload func(error)
}

// NewWatcher watches the registry's catalog directory.
func NewWatcher(reg *Registry, logger *slog.Logger) (*Watcher, error) {
	if reg.Dir() == "" {
		return nil, fmt.Errorf("watch: registry uses the built-in catalog")
	}
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(reg.Dir()); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch catalog dir %s: %w", reg.Dir(), err)
	}
	return &Watcher{reg: reg, fs: fw, logger: logger, debounce: defaultDebounce}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run reloads the registry after a burst of changes settles, until ctx is
// cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("catalog file changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)
		case <-timer.C:
			err := w.reg.Reload()
			if w.OnReload != nil {
				w.OnReload(err)
			}
			if err != nil {
				w.logger.Error("catalog reload failed", "dir", w.reg.Dir(), "error", err)
				continue
			}
			w.logger.Info("catalog reloaded", "dir", w.reg.Dir(), "records", w.reg.Info().Records)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".yaml", ".csv", ".gob":
		return true
	}
	return false
}
