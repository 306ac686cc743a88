package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes a catalog directory: its source, data file and format,
// plus the curated synonym table.
type Manifest struct {
	ID       string       `yaml:"id" json:"id"`
	Version  string       `yaml:"version" json:"version"`
	Source   string       `yaml:"source" json:"source"`
	License  string       `yaml:"license" json:"license"`
	DataFile string       `yaml:"data_file" json:"data_file"`
	Format   FormatSpec   `yaml:"format" json:"-"`
	Synonyms SynonymTable `yaml:"synonyms" json:"-"`
}

// FormatSpec describes the CSV layout. Columns are, in order:
// code, large category, medium category, small category, keywords.
type FormatSpec struct {
	Delimiter        string `yaml:"delimiter"`
	Encoding         string `yaml:"encoding"`
	HasHeader        bool   `yaml:"has_header"`
	KeywordSeparator string `yaml:"keyword_separator"`
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	if m.DataFile == "" {
		m.DataFile = "data.csv"
	}
	if m.Format.KeywordSeparator == "" {
		m.Format.KeywordSeparator = ","
	}
	return &m, nil
}

// WriteManifest writes m as YAML to dir/manifest.yaml.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(manifestPath(dir), data, 0o644)
}
