// Package catalog holds the read-only set of industry categories searched by
// the ranking engine, and loads it from disk.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidRecord is returned for a record missing its code or small category.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrDuplicateCode is returned when two records share a code.
	ErrDuplicateCode = errors.New("duplicate code")
)

// Record is one industry category.
type Record struct {
	Code           string   `json:"code" yaml:"code"`
	LargeCategory  string   `json:"large_category,omitempty" yaml:"large_category"`
	MediumCategory string   `json:"medium_category" yaml:"medium_category"`
	SmallCategory  string   `json:"small_category" yaml:"small_category"`
	Keywords       []string `json:"keywords,omitempty" yaml:"keywords"`
}

// FullCategory renders "medium > small".
func (r Record) FullCategory() string {
	return r.MediumCategory + " > " + r.SmallCategory
}

// SynonymTable maps a small category label to its curated synonyms. These
// rank above a record's own keywords.
type SynonymTable map[string][]string

// Catalog is an immutable, ordered list of records plus its synonym table.
// It is safe for concurrent reads.
type Catalog struct {
	id       string
	version  string
	records  []Record
	byCode   map[string]int
	synonyms SynonymTable
}

// New validates records and builds a Catalog. Inputs are copied.
func New(id, version string, records []Record, synonyms SynonymTable) (*Catalog, error) {
	c := &Catalog{
		id:       id,
		version:  version,
		records:  make([]Record, 0, len(records)),
		byCode:   make(map[string]int, len(records)),
		synonyms: make(SynonymTable, len(synonyms)),
	}
	for i, r := range records {
		if r.Code == "" {
			return nil, fmt.Errorf("record %d: %w: empty code", i, ErrInvalidRecord)
		}
		if r.SmallCategory == "" {
			return nil, fmt.Errorf("record %s: %w: empty small category", r.Code, ErrInvalidRecord)
		}
		if _, exists := c.byCode[r.Code]; exists {
			return nil, fmt.Errorf("record %s: %w", r.Code, ErrDuplicateCode)
		}
		r.Keywords = slices.Clone(r.Keywords)
		c.byCode[r.Code] = len(c.records)
		c.records = append(c.records, r)
	}
	for label, syns := range synonyms {
		c.synonyms[label] = slices.Clone(syns)
	}
	return c, nil
}

// ID returns the catalog identifier.
func (c *Catalog) ID() string { return c.id }

// Version returns the catalog version string.
func (c *Catalog) Version() string { return c.version }

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// At returns the i-th record in catalog order.
func (c *Catalog) At(i int) Record { return c.records[i] }

// Records returns a copy of all records in catalog order.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	for i, r := range c.records {
		r.Keywords = slices.Clone(r.Keywords)
		out[i] = r
	}
	return out
}

// Lookup finds a record by code.
func (c *Catalog) Lookup(code string) (Record, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Synonyms returns the curated synonyms for a small category label, or nil.
func (c *Catalog) Synonyms(smallCategory string) []string {
	return c.synonyms[smallCategory]
}

// SynonymCount returns the number of labels that carry curated synonyms.
func (c *Catalog) SynonymCount() int { return len(c.synonyms) }
