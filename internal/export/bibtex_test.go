package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/bipcite/internal/reference"
)

func TestToBibTeX_Article(t *testing.T) {
	rec := reference.Record{
		ID:    "Johnson2020",
		DOI:   "10.1234/jfr.2020.15",
		Title: "Web-based learning outcomes",
		Authors: []reference.Author{
			{First: "A.", Last: "Johnson"},
			{First: "B.", Last: "Lee"},
		},
		Year:   2020,
		Venue:  "Journal of Research",
		Volume: "15",
		Issue:  "3",
		Pages:  "123-145",
	}

	got := ToBibTeX(rec)

	wants := []string{
		"@article{Johnson2020,",
		`author = {Johnson, A. and Lee, B.}`,
		`title = {Web-based learning outcomes}`,
		`journal = {Journal of Research}`,
		`year = {2020}`,
		`volume = {15}`,
		`number = {3}`,
		`pages = {123--145}`,
		`doi = {10.1234/jfr.2020.15}`,
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("ToBibTeX() missing %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "langid") {
		t.Errorf("English record should not carry langid, got:\n%s", got)
	}
	if !strings.HasSuffix(strings.TrimSpace(got), "}") {
		t.Errorf("ToBibTeX() should end with }, got:\n%s", got)
	}
}

func TestToBibTeX_PersianBook(t *testing.T) {
	rec := reference.Record{
		ID:        "karimi1398",
		Title:     "مدیریت منابع انسانی",
		Authors:   []reference.Author{{First: "علی", Last: "کریمی"}},
		Year:      1398,
		Publisher: "نشر نی",
		ISBN:      "9789643123456",
		Language:  reference.Persian,
	}

	got := ToBibTeX(rec)

	for _, want := range []string{
		"@book{karimi1398,",
		`author = {کریمی, علی}`,
		`publisher = {نشر نی}`,
		`year = {1398}`,
		`isbn = {9789643123456}`,
		`langid = {persian}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToBibTeX() missing %q, got:\n%s", want, got)
		}
	}
}

func TestToBibTeX_OptionalFields(t *testing.T) {
	rec := reference.Record{
		ID:      "Minimal",
		Title:   "Minimal Paper",
		Authors: []reference.Author{{First: "A", Last: "B"}},
	}

	got := ToBibTeX(rec)

	for _, name := range []string{"doi", "year", "journal", "booktitle", "volume", "number", "pages", "publisher", "url"} {
		if strings.Contains(got, "  "+name+" = ") {
			t.Errorf("ToBibTeX() should omit empty %s, got:\n%s", name, got)
		}
	}
	if !strings.HasPrefix(got, "@misc{Minimal,") {
		t.Errorf("record without venue or publisher should be @misc, got:\n%s", got)
	}
}

func TestEntryType(t *testing.T) {
	tests := []struct {
		name string
		rec  reference.Record
		want string
	}{
		{"journal", reference.Record{Venue: "Nature"}, "article"},
		{"preprint", reference.Record{Venue: "arXiv"}, "article"},
		{"proceedings", reference.Record{Venue: "Proceedings of NeurIPS"}, "inproceedings"},
		{"conference", reference.Record{Venue: "International Conference on Machine Learning"}, "inproceedings"},
		{"persian conference", reference.Record{Venue: "همایش ملی مدیریت"}, "inproceedings"},
		{"publisher", reference.Record{Publisher: "Oxford University Press"}, "book"},
		{"isbn only", reference.Record{ISBN: "0123456789"}, "book"},
		{"nothing", reference.Record{}, "misc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntryType(tt.rec); got != tt.want {
				t.Errorf("EntryType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []reference.Author
		want    string
	}{
		{"single author", []reference.Author{{First: "John", Last: "Smith"}}, "Smith, John"},
		{
			"two authors",
			[]reference.Author{{First: "John", Last: "Smith"}, {First: "Jane", Last: "Doe"}},
			"Smith, John and Doe, Jane",
		},
		{"only last name", []reference.Author{{Last: "Corporation"}}, "Corporation"},
		{"escaped", []reference.Author{{Last: "Smith & Sons"}}, `Smith \& Sons`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAuthors(tt.authors); got != tt.want {
				t.Errorf("formatAuthors() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeLatex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"100% effective", `100\% effective`},
		{"A & B", `A \& B`},
		{"$100 price", `\$100 price`},
		{"section #1", `section \#1`},
		{"under_score", `under\_score`},
		{"{braces}", `\{braces\}`},
		{"test~tilde", `test\textasciitilde{}tilde`},
		{"x^2", `x\textasciicircum{}2`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeLatex(tt.input); got != tt.want {
				t.Errorf("escapeLatex(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToBibTeXList(t *testing.T) {
	recs := []reference.Record{
		{ID: "first", Title: "First Paper", Venue: "Nature"},
		{ID: "second", Title: "Second Paper", Venue: "Science"},
	}

	got := ToBibTeXList(recs)
	if parts := strings.Split(got, "@article{"); len(parts) != 3 {
		t.Errorf("ToBibTeXList() should have 2 entries, got %d", len(parts)-1)
	}
	if ToBibTeXList(nil) != "" {
		t.Error("ToBibTeXList(nil) should be empty")
	}
}

func TestBibTeXIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	content := "@article{smith2024,\n  title = {A},\n  doi = {https://doi.org/10.1000/ABC},\n}\n\n@book{karimi1398,\n  title = {B},\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := ParseBibTeXFile(path)
	if err != nil {
		t.Fatalf("ParseBibTeXFile() error = %v", err)
	}

	tests := []struct {
		key, doi string
		want     bool
	}{
		{"other", "10.1000/abc", true},
		{"other", "doi:10.1000/ABC", true},
		{"karimi1398", "", true},
		{"smith2024", "", true},
		{"new", "10.9999/zzz", false},
		{"new", "", false},
	}
	for _, tt := range tests {
		if got := idx.HasEntry(tt.key, tt.doi); got != tt.want {
			t.Errorf("HasEntry(%q, %q) = %v, want %v", tt.key, tt.doi, got, tt.want)
		}
	}
}

func TestParseBibTeXFile_Missing(t *testing.T) {
	idx, err := ParseBibTeXFile(filepath.Join(t.TempDir(), "absent.bib"))
	if err != nil {
		t.Fatalf("ParseBibTeXFile() error = %v", err)
	}
	if len(idx.Keys) != 0 {
		t.Errorf("expected empty index, got %v", idx.Keys)
	}
}

func TestAppendNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	recs := []reference.Record{
		{ID: "a", Title: "Paper A", DOI: "10.1/a"},
		{ID: "b", Title: "Paper B"},
	}

	added, skipped, err := AppendNew(path, recs)
	if err != nil {
		t.Fatalf("AppendNew() error = %v", err)
	}
	if added != 2 || skipped != 0 {
		t.Errorf("first AppendNew() = %d added, %d skipped", added, skipped)
	}

	recs = append(recs, reference.Record{ID: "c", Title: "Paper C"}, reference.Record{ID: "a2", DOI: "10.1/A"})
	added, skipped, err = AppendNew(path, recs)
	if err != nil {
		t.Fatalf("AppendNew() error = %v", err)
	}
	if added != 1 || skipped != 3 {
		t.Errorf("second AppendNew() = %d added, %d skipped, want 1 and 3", added, skipped)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "@misc{"); n != 3 {
		t.Errorf("file has %d entries, want 3:\n%s", n, data)
	}
}
