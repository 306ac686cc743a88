package rank

import (
	"math"
	"slices"
	"strings"

	"github.com/hazyhaar/catmatch/pkg/catalog"
	"github.com/hazyhaar/catmatch/pkg/hangul"
	"github.com/hazyhaar/catmatch/pkg/similarity"
)

// Scoring weights. They were tuned by hand against the restaurant catalog;
// changing any of them changes which categories a query surfaces.
const (
	ScoreExactSmall   = 100
	ScoreExactMedium  = 95
	ScoreExactKeyword = 90

	PointsPrefixSmall      = 60
	PointsPrefixMedium     = 50
	PointsSubstringSmall   = 40
	PointsSubstringMedium  = 30
	PointsKeywordPrefix    = 35
	PointsKeywordSubstring = 25
	PointsSynonymExact     = 75
	PointsSynonymPrefix    = 50
	PointsJamoHigh         = 25
	PointsJamoLow          = 10
	PointsRawScale         = 20

	jamoHighRatio = 0.7
	jamoLowRatio  = 0.5
	rawMinRatio   = 0.5
)

// query is a normalized search string with its jamo form.
type query struct {
	text string
	jamo string
	n    int
}

func newQuery(raw string) query {
	q := Normalize(raw)
	return query{text: q, jamo: hangul.Decompose(q), n: runeLen(q)}
}

// entry is a catalog record with its comparison forms precomputed.
type entry struct {
	index    int
	record   catalog.Record
	small    string
	medium   string
	jamo     string
	keywords []string
	synonyms []string
	smallLen int
}

func newEntry(i int, r catalog.Record, synonyms []string) entry {
	e := entry{
		index:    i,
		record:   r,
		small:    Normalize(r.SmallCategory),
		medium:   Normalize(r.MediumCategory),
		smallLen: runeLen(r.SmallCategory),
	}
	e.jamo = hangul.Decompose(e.small)
	for _, k := range r.Keywords {
		if k = Normalize(k); k != "" {
			e.keywords = append(e.keywords, k)
		}
	}
	e.synonyms = make([]string, len(synonyms))
	for i, s := range synonyms {
		e.synonyms[i] = Normalize(s)
	}
	return e
}

// rule contributes points for one signal. A terminal rule fixes the score
// and stops evaluation for the record.
type rule struct {
	name  string
	apply func(q query, e *entry) (points int, terminal bool)
}

// pipeline is the ordered scoring policy.
var pipeline = []rule{
	{"exact", exactRule},
	{"prefix", prefixRule},
	{"substring", substringRule},
	{"keyword", keywordRule},
	{"synonym", synonymRule},
	{"jamo", jamoRule},
	{"raw", rawRule},
}

func exactRule(q query, e *entry) (int, bool) {
	switch {
	case q.text == e.small:
		return ScoreExactSmall, true
	case q.text == e.medium:
		return ScoreExactMedium, true
	case slices.Contains(e.keywords, q.text):
		return ScoreExactKeyword, true
	}
	return 0, false
}

func prefixRule(q query, e *entry) (int, bool) {
	switch {
	case strings.HasPrefix(e.small, q.text):
		return PointsPrefixSmall, false
	case strings.HasPrefix(e.medium, q.text):
		return PointsPrefixMedium, false
	}
	return 0, false
}

func substringRule(q query, e *entry) (int, bool) {
	switch {
	case strings.Contains(e.small, q.text):
		return PointsSubstringSmall, false
	case strings.Contains(e.medium, q.text):
		return PointsSubstringMedium, false
	}
	return 0, false
}

func keywordRule(q query, e *entry) (int, bool) {
	hasPrefix := func(k string) bool { return strings.HasPrefix(k, q.text) }
	contains := func(k string) bool { return strings.Contains(k, q.text) }
	switch {
	case slices.ContainsFunc(e.keywords, hasPrefix):
		return PointsKeywordPrefix, false
	case slices.ContainsFunc(e.keywords, contains):
		return PointsKeywordSubstring, false
	}
	return 0, false
}

func synonymRule(q query, e *entry) (int, bool) {
	hasPrefix := func(s string) bool { return strings.HasPrefix(s, q.text) }
	switch {
	case slices.Contains(e.synonyms, q.text):
		return PointsSynonymExact, false
	case slices.ContainsFunc(e.synonyms, hasPrefix):
		return PointsSynonymPrefix, false
	}
	return 0, false
}

func jamoRule(q query, e *entry) (int, bool) {
	if q.n < MinQueryLength {
		return 0, false
	}
	r := similarity.Ratio(q.jamo, e.jamo)
	switch {
	case r > jamoHighRatio:
		return PointsJamoHigh, false
	case r > jamoLowRatio:
		return PointsJamoLow, false
	}
	return 0, false
}

func rawRule(q query, e *entry) (int, bool) {
	r := similarity.Ratio(q.text, e.small)
	if r > rawMinRatio {
		return int(math.Round(r * PointsRawScale)), false
	}
	return 0, false
}

// Step is the contribution of one rule to a record's score.
type Step struct {
	Rule     string `json:"rule"`
	Points   int    `json:"points"`
	Terminal bool   `json:"terminal,omitempty"`
}

// evaluate runs the pipeline for one record. When trace is true every rule
// that fired is recorded.
func evaluate(q query, e *entry, trace bool) (int, []Step) {
	var score int
	var steps []Step
	for _, r := range pipeline {
		points, terminal := r.apply(q, e)
		if trace && (points != 0 || terminal) {
			steps = append(steps, Step{Rule: r.name, Points: points, Terminal: terminal})
		}
		if terminal {
			return points, steps
		}
		score += points
	}
	return score, steps
}
