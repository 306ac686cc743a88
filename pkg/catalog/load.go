package catalog

import (
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const (
	manifestFile = "manifest.yaml"
	gobFile      = "data.gob"
	csvColumns   = 5
)

func manifestPath(dir string) string { return filepath.Join(dir, manifestFile) }

// Load reads dir/manifest.yaml and the records it points to. A data.gob
// snapshot takes priority over the CSV data file.
func Load(dir string) (*Catalog, error) {
	m, err := LoadManifest(manifestPath(dir))
	if err != nil {
		return nil, err
	}

	var records []Record
	gobPath := filepath.Join(dir, gobFile)
	if _, err := os.Stat(gobPath); err == nil {
		records, err = loadGob(gobPath)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", m.ID, err)
		}
	} else {
		records, err = LoadCSV(filepath.Join(dir, m.DataFile), m.Format)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", m.ID, err)
		}
	}

	c, err := New(m.ID, m.Version, records, m.Synonyms)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", m.ID, err)
	}
	for label := range m.Synonyms {
		if !c.hasSmallCategory(label) {
			slog.Warn("synonyms for unknown small category", "catalog", m.ID, "label", label)
		}
	}
	return c, nil
}

func (c *Catalog) hasSmallCategory(label string) bool {
	for _, r := range c.records {
		if r.SmallCategory == label {
			return true
		}
	}
	return false
}

// LoadCSV reads category rows from a CSV file laid out as described by format.
func LoadCSV(path string, format FormatSpec) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	// Korean public datasets are often published in EUC-KR.
	var reader io.Reader = f
	if enc := format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if format.Delimiter != "" {
		r.Comma = []rune(format.Delimiter)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	if format.HasHeader {
		if _, err := r.Read(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
	}

	sep := format.KeywordSeparator
	if sep == "" {
		sep = ","
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) < csvColumns-1 {
			continue
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		rec := Record{
			Code:           row[0],
			LargeCategory:  row[1],
			MediumCategory: row[2],
			SmallCategory:  row[3],
		}
		if len(row) >= csvColumns {
			rec.Keywords = splitKeywords(row[4], sep)
		}
		records = append(records, rec)
	}
	return records, nil
}

func splitKeywords(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadGob(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	var records []Record
	if err := gob.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode gob: %w", err)
	}
	return records, nil
}

// SaveGob serializes records to a gob-encoded file at path.
func SaveGob(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(records); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}

// Snapshot loads the CSV rows of the catalog in dir and writes them to
// dir/data.gob. It returns the number of records written.
func Snapshot(dir string) (int, error) {
	m, err := LoadManifest(manifestPath(dir))
	if err != nil {
		return 0, err
	}
	records, err := LoadCSV(filepath.Join(dir, m.DataFile), m.Format)
	if err != nil {
		return 0, fmt.Errorf("catalog %s: %w", m.ID, err)
	}
	if _, err := New(m.ID, m.Version, records, nil); err != nil {
		return 0, fmt.Errorf("catalog %s: %w", m.ID, err)
	}
	if err := SaveGob(records, filepath.Join(dir, gobFile)); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Export writes c as a catalog directory (manifest.yaml + data.csv).
func Export(c *Catalog, dir, source string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	m := &Manifest{
		ID:       c.id,
		Version:  c.version,
		Source:   source,
		DataFile: "data.csv",
		Format: FormatSpec{
			Delimiter:        ",",
			Encoding:         "utf-8",
			HasHeader:        true,
			KeywordSeparator: "|",
		},
		Synonyms: c.synonyms,
	}

	f, err := os.Create(filepath.Join(dir, m.DataFile))
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	w := csv.NewWriter(f)
	w.Write([]string{"code", "large_category", "medium_category", "small_category", "keywords"})
	for _, r := range c.records {
		w.Write([]string{r.Code, r.LargeCategory, r.MediumCategory, r.SmallCategory, strings.Join(r.Keywords, "|")})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	return WriteManifest(dir, m)
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
