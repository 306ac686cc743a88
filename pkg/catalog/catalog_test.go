package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/korean"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Len() != 20 {
		t.Fatalf("Len = %d, want 20", c.Len())
	}
	if c.SynonymCount() != 18 {
		t.Errorf("SynonymCount = %d, want 18", c.SynonymCount())
	}

	r, ok := c.Lookup("I20301")
	if !ok {
		t.Fatal("expected I20301 in default catalog")
	}
	if r.SmallCategory != "초밥/참치" {
		t.Errorf("SmallCategory = %q, want 초밥/참치", r.SmallCategory)
	}
	if r.FullCategory() != "일식 음식점업 > 초밥/참치" {
		t.Errorf("FullCategory = %q", r.FullCategory())
	}
	if got := c.Synonyms("초밥/참치"); len(got) == 0 || got[0] != "스시" {
		t.Errorf("Synonyms(초밥/참치) = %v, want first 스시", got)
	}
	if got := c.Synonyms("분식 프랜차이즈"); got != nil {
		t.Errorf("Synonyms(분식 프랜차이즈) = %v, want nil", got)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    error
	}{
		{"empty code", []Record{{SmallCategory: "카페"}}, ErrInvalidRecord},
		{"empty small", []Record{{Code: "A1"}}, ErrInvalidRecord},
		{"duplicate", []Record{
			{Code: "A1", SmallCategory: "카페"},
			{Code: "A1", SmallCategory: "분식"},
		}, ErrDuplicateCode},
	}
	for _, tt := range tests {
		_, err := New("t", "1", tt.records, nil)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestNew_CopiesInput(t *testing.T) {
	records := []Record{{Code: "A1", SmallCategory: "카페", Keywords: []string{"커피"}}}
	c, err := New("t", "1", records, SynonymTable{"카페": {"커피"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	records[0].Keywords[0] = "changed"
	records[0].SmallCategory = "changed"

	r := c.At(0)
	if r.SmallCategory != "카페" || r.Keywords[0] != "커피" {
		t.Errorf("catalog mutated through input slice: %+v", r)
	}

	out := c.Records()
	out[0].Keywords[0] = "changed"
	if c.At(0).Keywords[0] != "커피" {
		t.Error("catalog mutated through Records() copy")
	}
}

func writeCatalog(t *testing.T, manifest, data string) string {
	t.Helper()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(manifest), 0o644)
	os.WriteFile(filepath.Join(dir, "data.csv"), []byte(data), 0o644)
	return dir
}

const testManifest = `id: test-catalog
version: "2"
source: unit test
format:
  delimiter: ";"
  has_header: true
  keyword_separator: ","
synonyms:
  카페: [카페, 커피]
`

func TestLoad_CSV(t *testing.T) {
	dir := writeCatalog(t, testManifest,
		"code;large;medium;small;keywords\n"+
			"I21201;음식점업;비알코올 음료점업;카페;커피, 음료 ,,디저트\n"+
			"I21007;음식점업;기타 간이 음식점업;피자\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ID() != "test-catalog" || c.Version() != "2" {
		t.Errorf("ID/Version = %q/%q", c.ID(), c.Version())
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	cafe := c.At(0)
	want := []string{"커피", "음료", "디저트"}
	if len(cafe.Keywords) != len(want) {
		t.Fatalf("Keywords = %v, want %v", cafe.Keywords, want)
	}
	for i := range want {
		if cafe.Keywords[i] != want[i] {
			t.Errorf("Keywords[%d] = %q, want %q", i, cafe.Keywords[i], want[i])
		}
	}
	if pizza := c.At(1); pizza.Keywords != nil {
		t.Errorf("pizza keywords = %v, want nil", pizza.Keywords)
	}
	if got := c.Synonyms("카페"); len(got) != 2 {
		t.Errorf("Synonyms(카페) = %v", got)
	}
}

func TestLoad_EUCKR(t *testing.T) {
	body := "I21201,음식점업,비알코올 음료점업,카페,커피|음료\n"
	encoded, err := korean.EUCKR.NewEncoder().String(body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dir := writeCatalog(t, `id: euckr
format:
  encoding: euc-kr
  keyword_separator: "|"
`, encoded)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.At(0).SmallCategory; got != "카페" {
		t.Errorf("SmallCategory = %q, want 카페", got)
	}
	if got := c.At(0).Keywords; len(got) != 2 || got[1] != "음료" {
		t.Errorf("Keywords = %v", got)
	}
}

func TestLoad_DuplicateCode(t *testing.T) {
	dir := writeCatalog(t, testManifest,
		"code;large;medium;small;keywords\nA1;l;m;카페;\nA1;l;m;분식;\n")
	if _, err := Load(dir); !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("err = %v, want ErrDuplicateCode", err)
	}
}

func TestLoad_MissingManifest(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestLoad_UnsupportedEncoding(t *testing.T) {
	dir := writeCatalog(t, "id: bad\nformat:\n  encoding: klingon\n", "A1,l,m,s,k\n")
	if _, err := Load(dir); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}

func TestSnapshot_PrefersGob(t *testing.T) {
	dir := writeCatalog(t, testManifest,
		"code;large;medium;small;keywords\nI21201;음식점업;비알코올 음료점업;카페;커피\n")

	n, err := Snapshot(dir)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if n != 1 {
		t.Errorf("Snapshot wrote %d records, want 1", n)
	}

	// Overwrite the CSV; Load must keep serving the gob snapshot.
	os.WriteFile(filepath.Join(dir, "data.csv"), []byte("code;large;medium;small;keywords\nX9;l;m;other;\n"), 0o644)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := c.Lookup("I21201"); !ok {
		t.Error("expected I21201 from gob snapshot")
	}
	if _, ok := c.Lookup("X9"); ok {
		t.Error("X9 should not be loaded, gob takes priority over csv")
	}
}

func TestExport_LoadsBack(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "restaurants")
	if err := Export(Default(), dir, "built-in"); err != nil {
		t.Fatalf("Export: %v", err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 20 {
		t.Fatalf("Len = %d, want 20", c.Len())
	}
	r, ok := c.Lookup("I20102")
	if !ok {
		t.Fatal("expected I20102")
	}
	if len(r.Keywords) != 6 || r.Keywords[5] != "탕" {
		t.Errorf("Keywords = %v", r.Keywords)
	}
	if got := c.Synonyms("국/탕/찌개류"); len(got) != 6 {
		t.Errorf("Synonyms(국/탕/찌개류) = %v", got)
	}
}
