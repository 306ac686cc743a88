// Package rank scores catalog categories against a short Hangul query and
// returns the best matches for autocomplete.
package rank

import (
	"fmt"
	"sort"

	"github.com/hazyhaar/catmatch/pkg/catalog"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLimit is the number of matches returned when the caller asks for
	// a non-positive limit.
	DefaultLimit = 8
	// DefaultThreshold is the minimum score a record needs to be returned.
	DefaultThreshold = 45
	// MinQueryLength is the shortest normalized query, in runes, worth searching.
	MinQueryLength = 2
)

// Status tells a caller why a result holds what it holds.
type Status string

const (
	StatusOK       Status = "ok"
	StatusTooShort Status = "too_short"
	StatusNoMatch  Status = "no_match"
)

// Match is one ranked category.
type Match struct {
	Code         string `json:"code"`
	Category     string `json:"category"`
	FullCategory string `json:"fullCategory"`
	Score        int    `json:"-"`
}

// Result is the outcome of a single Rank call.
type Result struct {
	Query      string  `json:"query"`
	Normalized string  `json:"normalized"`
	Status     Status  `json:"status"`
	Matches    []Match `json:"matches"`
}

// Message is the hint shown next to the autocomplete list.
func (r *Result) Message() string {
	switch r.Status {
	case StatusTooShort:
		return "검색어를 더 입력해 주세요."
	case StatusNoMatch:
		return "일치하는 업종이 없습니다."
	default:
		return fmt.Sprintf("%d개 결과", len(r.Matches))
	}
}

// Engine ranks one immutable catalog. It is safe for concurrent use.
type Engine struct {
	catalog      *catalog.Catalog
	entries      []entry
	defaultLimit int
	threshold    int
	workers      int
	minParallel  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultLimit sets the limit used when Rank gets a non-positive one.
func WithDefaultLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultLimit = n
		}
	}
}

// WithThreshold sets the admission threshold.
func WithThreshold(n int) Option {
	return func(e *Engine) { e.threshold = n }
}

// WithParallelism scores records on up to workers goroutines once the
// catalog holds at least minRecords records. Results do not change.
func WithParallelism(workers, minRecords int) Option {
	return func(e *Engine) {
		e.workers = workers
		e.minParallel = minRecords
	}
}

// New precomputes the comparison forms of every record in cat.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:      cat,
		entries:      make([]entry, cat.Len()),
		defaultLimit: DefaultLimit,
		threshold:    DefaultThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	for i := range e.entries {
		r := cat.At(i)
		e.entries[i] = newEntry(i, r, cat.Synonyms(r.SmallCategory))
	}
	return e
}

// Catalog returns the catalog this engine ranks.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Threshold returns the admission threshold.
func (e *Engine) Threshold() int { return e.threshold }

// Rank returns at most limit records ordered by descending score, with an
// exact small category match always first. Ties go to the shorter small
// category, then to catalog order.
func (e *Engine) Rank(raw string, limit int) *Result {
	if limit <= 0 {
		limit = e.defaultLimit
	}
	q := newQuery(raw)
	res := &Result{
		Query:      raw,
		Normalized: q.text,
		Matches:    []Match{},
	}
	if q.n < MinQueryLength {
		res.Status = StatusTooShort
		return res
	}

	scores := e.scoreAll(q)

	admitted := make([]int, 0, len(scores))
	for i, s := range scores {
		if s >= e.threshold {
			admitted = append(admitted, i)
		}
	}
	sort.SliceStable(admitted, func(a, b int) bool {
		ia, ib := admitted[a], admitted[b]
		// Partial signals can add up past 100; an exact label match still leads.
		xa, xb := e.entries[ia].small == q.text, e.entries[ib].small == q.text
		if xa != xb {
			return xa
		}
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return e.entries[ia].smallLen < e.entries[ib].smallLen
	})
	if len(admitted) > limit {
		admitted = admitted[:limit]
	}

	for _, i := range admitted {
		r := e.entries[i].record
		res.Matches = append(res.Matches, Match{
			Code:         r.Code,
			Category:     r.SmallCategory,
			FullCategory: r.FullCategory(),
			Score:        scores[i],
		})
	}
	if len(res.Matches) == 0 {
		res.Status = StatusNoMatch
	} else {
		res.Status = StatusOK
	}
	return res
}

// parallelWorkers is the number of goroutines scoreAll uses, 0 when it
// scores sequentially.
func (e *Engine) parallelWorkers() int {
	if e.workers <= 1 || len(e.entries) < e.minParallel {
		return 0
	}
	return e.workers
}

func (e *Engine) scoreAll(q query) []int {
	scores := make([]int, len(e.entries))
	if e.parallelWorkers() == 0 {
		for i := range e.entries {
			scores[i], _ = evaluate(q, &e.entries[i], false)
		}
		return scores
	}

	chunk := (len(e.entries) + e.workers - 1) / e.workers
	var g errgroup.Group
	g.SetLimit(e.workers)
	for start := 0; start < len(e.entries); start += chunk {
		end := min(start+chunk, len(e.entries))
		g.Go(func() error {
			for i := start; i < end; i++ {
				scores[i], _ = evaluate(q, &e.entries[i], false)
			}
			return nil
		})
	}
	g.Wait()
	return scores
}

// Score returns the score of rec for raw, whether or not rec belongs to the
// engine's catalog. Curated synonyms come from the engine's catalog.
func (e *Engine) Score(raw string, rec catalog.Record) int {
	en := newEntry(0, rec, e.catalog.Synonyms(rec.SmallCategory))
	score, _ := evaluate(newQuery(raw), &en, false)
	return score
}

// Explanation breaks a record's score down by rule.
type Explanation struct {
	Code       string `json:"code"`
	Category   string `json:"category"`
	Query      string `json:"query"`
	Normalized string `json:"normalized"`
	Steps      []Step `json:"steps"`
	Score      int    `json:"score"`
	Threshold  int    `json:"threshold"`
	Admitted   bool   `json:"admitted"`
}

// Explain scores the record with the given code and lists every rule that
// contributed. ok is false when the code is not in the catalog.
func (e *Engine) Explain(raw, code string) (*Explanation, bool) {
	rec, ok := e.catalog.Lookup(code)
	if !ok {
		return nil, false
	}
	q := newQuery(raw)
	ex := &Explanation{
		Code:       code,
		Category:   rec.SmallCategory,
		Query:      raw,
		Normalized: q.text,
		Steps:      []Step{},
		Threshold:  e.threshold,
	}
	if q.n < MinQueryLength {
		return ex, true
	}
	en := newEntry(0, rec, e.catalog.Synonyms(rec.SmallCategory))
	score, steps := evaluate(q, &en, true)
	if steps != nil {
		ex.Steps = steps
	}
	ex.Score = score
	ex.Admitted = score >= e.threshold
	return ex, true
}
