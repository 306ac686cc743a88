package rank

import (
	"fmt"
	"sync"

	"github.com/hazyhaar/catmatch/pkg/catalog"
)

// Registry holds the engine built from the current catalog and swaps in a
// fresh one on reload. Each engine stays immutable once published.
type Registry struct {
	loadMu sync.Mutex // serializes Load from end to end
	mu     sync.RWMutex
	engine *Engine
	dir    string
	opts   []Option

	// OnLoad, when set, is called after every successful Load, before the
	// next Load may start.
	OnLoad func(*Engine)
}

// NewRegistry creates a registry for the catalog directory dir. An empty dir
// selects the built-in catalog.
func NewRegistry(dir string, opts ...Option) *Registry {
	return &Registry{dir: dir, opts: opts}
}

// Dir returns the catalog directory, empty for the built-in catalog.
func (r *Registry) Dir() string { return r.dir }

// Load builds a new engine from the catalog. On error the previous engine,
// if any, keeps serving. Concurrent calls run one after the other, so the
// last Load to start publishes last.
func (r *Registry) Load() error {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	cat := catalog.Default()
	if r.dir != "" {
		var err error
		cat, err = catalog.Load(r.dir)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", r.dir, err)
		}
	}
	e := New(cat, r.opts...)

	r.mu.Lock()
	r.engine = e
	r.mu.Unlock()

	if r.OnLoad != nil {
		r.OnLoad(e)
	}
	return nil
}

// Reload reloads the catalog from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

// Engine returns the current engine, nil before the first Load.
func (r *Registry) Engine() *Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine
}

// Search ranks query against the current catalog.
func (r *Registry) Search(query string, limit int) *Result {
	e := r.Engine()
	if e == nil {
		return &Result{Query: query, Status: StatusNoMatch, Matches: []Match{}}
	}
	return e.Rank(query, limit)
}

// Info is the public description of the loaded catalog.
type Info struct {
	ID        string `json:"id"`
	Version   string `json:"version"`
	Records   int    `json:"records"`
	Synonyms  int    `json:"synonyms"`
	Threshold int    `json:"threshold"`
	Source    string `json:"source"`
	// ParallelWorkers is the number of scoring goroutines, 0 when the
	// catalog is scored sequentially.
	ParallelWorkers int `json:"parallel_workers"`
}

// Info describes the loaded catalog.
func (r *Registry) Info() Info {
	e := r.Engine()
	if e == nil {
		return Info{}
	}
	src := "built-in"
	if r.dir != "" {
		src = r.dir
	}
	return Info{
		ID:        e.catalog.ID(),
		Version:   e.catalog.Version(),
		Records:   e.catalog.Len(),
		Synonyms:  e.catalog.SynonymCount(),
		Threshold: e.threshold,
		Source:    src,

		ParallelWorkers: e.parallelWorkers(),
	}
}
