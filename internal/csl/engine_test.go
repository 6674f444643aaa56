package csl

import (
	"errors"
	"strings"
	"testing"

	"github.com/matsen/bipcite/internal/reference"
	"github.com/matsen/bipcite/internal/style"
)

func sampleArticle() Item {
	return FromRecord(reference.Record{
		ID:    "smith2024",
		Title: "The impact of technology on education",
		Authors: []reference.Author{
			{First: "J.", Last: "Smith"},
			{First: "M.", Last: "Johnson"},
		},
		Year:   2024,
		Venue:  "Journal of Educational Technology",
		Volume: "15",
		Issue:  "3",
		Pages:  "123-145",
	})
}

func TestBibliography_Styles(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		styleID string
		want    string
	}{
		{style.IDAPA, "Smith, J., & Johnson, M. (2024). The impact of technology on education. Journal of Educational Technology, 15(3), 123-145."},
		{style.IDHarvard, "Smith, J. and Johnson, M. (2024) The impact of technology on education. Journal of Educational Technology, 15(3), pp. 123-145."},
		{style.IDMLA, "Smith, J., and M. Johnson. “The impact of technology on education.” Journal of Educational Technology, vol. 15, no. 3, 2024, pp. 123-145."},
		{style.IDChicago, "Smith, J., and M. Johnson. 2024. “The impact of technology on education.” Journal of Educational Technology 15 (3): 123-145."},
		{style.IDVancouver, "1. Smith J, Johnson M. The impact of technology on education. Journal of Educational Technology. 2024;15(3):123-145."},
	}
	for _, tt := range tests {
		t.Run(tt.styleID, func(t *testing.T) {
			got, err := e.Bibliography([]Item{sampleArticle()}, tt.styleID, "en-US")
			if err != nil {
				t.Fatalf("Bibliography() error = %v", err)
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Bibliography() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestCitation_Styles(t *testing.T) {
	e := NewEngine()
	three := sampleArticle()
	three.Author = append(three.Author, Name{Family: "Lee", Given: "K."})
	three.Issued = "2020"

	tests := []struct {
		styleID string
		items   []Item
		want    string
	}{
		{style.IDAPA, []Item{sampleArticle()}, "(Smith & Johnson, 2024)"},
		{style.IDAPA, []Item{sampleArticle(), three}, "(Smith & Johnson, 2024; Smith et al., 2020)"},
		{style.IDHarvard, []Item{sampleArticle()}, "(Smith and Johnson, 2024)"},
		{style.IDMLA, []Item{sampleArticle()}, "(Smith and Johnson)"},
		{style.IDChicago, []Item{sampleArticle()}, "(Smith and Johnson 2024)"},
		{style.IDVancouver, []Item{sampleArticle(), three}, "[1,2]"},
	}
	for _, tt := range tests {
		t.Run(tt.styleID, func(t *testing.T) {
			got, err := e.Citation(tt.items, tt.styleID, "en-US")
			if err != nil {
				t.Fatalf("Citation() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Citation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCitation_NoYear(t *testing.T) {
	it := sampleArticle()
	it.Issued = ""
	got, err := NewEngine().Citation([]Item{it}, style.IDAPA, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "(Smith & Johnson, n.d.)" {
		t.Errorf("Citation() = %q", got)
	}
}

func TestBibliography_PersianQuotes(t *testing.T) {
	it := FromRecord(reference.Record{
		Title:    "بررسی جامعه شناختی قمار آنلاین",
		Authors:  []reference.Author{{First: "لیلا", Last: "ربیعی"}},
		Year:     1401,
		Language: reference.Persian,
	})
	got, err := NewEngine().Bibliography([]Item{it}, style.IDMLA, "fa-IR")
	if err != nil {
		t.Fatal(err)
	}
	want := "ربیعی, لیلا. «بررسی جامعه شناختی قمار آنلاین.» 1401."
	if got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}

func TestEngine_Errors(t *testing.T) {
	e := NewEngine()
	if _, err := e.Citation([]Item{sampleArticle()}, "no-such-style", "en-US"); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("unknown style error = %v", err)
	}
	if _, err := e.Bibliography([]Item{{ID: "empty"}}, style.IDAPA, "en-US"); !errors.Is(err, ErrIncompleteItem) {
		t.Errorf("incomplete item error = %v", err)
	}
	if _, err := e.Bibliography([]Item{sampleArticle()}, style.IDAPA, "not a locale!"); err == nil {
		t.Error("expected locale error")
	}
}

func TestNames(t *testing.T) {
	nms := []Name{{Family: "Smith", Given: "John Ronald"}, {Family: "Doe", Given: "JA"}, {Family: "Lee", Given: "K."}}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"apa", NamesLastFirstInitialCommaAmpersand(nms), "Smith, J. R., Doe, J. A., & Lee, K."},
		{"harvard", NamesLastFirstInitialAnd(nms), "Smith, J. R., Doe, J. A. and Lee, K."},
		{"chicago", NamesFirstInvertedAnd(nms), "Smith, John Ronald, JA Doe, and K. Lee"},
		{"mla", NamesMLA(nms), "Smith, John Ronald, et al."},
		{"vancouver", NamesVancouver(nms), "Smith JR, Doe JA, Lee K"},
		{"cite", NamesCiteEtAl(nms[:2], "&"), "Smith & Doe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNamesVancouver_Truncates(t *testing.T) {
	var nms []Name
	for _, f := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		nms = append(nms, Name{Family: f + "son", Given: f})
	}
	want := "Ason A, Bson B, Cson C, Dson D, Eson E, Fson F, et al."
	if got := NamesVancouver(nms); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnsurePeriod(t *testing.T) {
	for in, want := range map[string]string{"": "", "abc": "abc.", "abc.": "abc.", "abc?": "abc?", "آنلاین": "آنلاین."} {
		if got := EnsurePeriod(in); got != want {
			t.Errorf("EnsurePeriod(%q) = %q, want %q", in, got, want)
		}
	}
}

func persianArticle() Item {
	return FromRecord(reference.Record{
		ID:    "rabiei1401",
		Title: "بررسی جامعه شناختی قمار آنلاین",
		Authors: []reference.Author{
			{First: "لیلا", Last: "ربیعی"},
			{First: "سارا", Last: "یوسفی خواه"},
		},
		Year:     1401,
		Language: reference.Persian,
	})
}

func TestCitation_PersianSeparators(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		styleID string
		want    string
	}{
		{style.IDAPA, "(ربیعی & یوسفی خواه، 1401؛ Smith & Johnson، 2024)"},
		{style.IDHarvard, "(ربیعی and یوسفی خواه، 1401؛ Smith and Johnson، 2024)"},
		{style.IDChicago, "(ربیعی and یوسفی خواه 1401؛ Smith and Johnson 2024)"},
	}
	for _, tt := range tests {
		t.Run(tt.styleID, func(t *testing.T) {
			got, err := e.Citation([]Item{persianArticle(), sampleArticle()}, tt.styleID, "fa-IR")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Citation() = %q, want %q", got, tt.want)
			}
			if strings.Contains(got, ", ") {
				t.Errorf("Citation() = %q keeps a Latin comma", got)
			}
		})
	}
}

func TestBibliography_APAEntries(t *testing.T) {
	book := FromRecord(reference.Record{
		ID:        "smith2019",
		Title:     "Research methods",
		Authors:   []reference.Author{{First: "J.", Last: "Smith"}},
		Year:      2019,
		Publisher: "Academic Press",
	})
	withDOI := sampleArticle()
	withDOI.DOI = "10.1234/jet.2024.3"
	undated := sampleArticle()
	undated.Issued = ""

	tests := []struct {
		name string
		item Item
		want string
	}{
		{"book", book, "Smith, J. (2019). Research methods. Academic Press."},
		{"doi", withDOI, "Smith, J., & Johnson, M. (2024). The impact of technology on education. Journal of Educational Technology, 15(3), 123-145. http://doi.org/10.1234/jet.2024.3"},
		{"undated", undated, "Smith, J., & Johnson, M. (n.d.). The impact of technology on education. Journal of Educational Technology, 15(3), 123-145."},
		{"persian", persianArticle(), "ربیعی, ل., & یوسفی خواه, س. (1401). بررسی جامعه شناختی قمار آنلاین."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEngine().Bibliography([]Item{tt.item}, style.IDAPA, "en-US")
			if err != nil {
				t.Fatal(err)
			}
			if got[0] != tt.want {
				t.Errorf("Bibliography() =\n%q\nwant\n%q", got[0], tt.want)
			}
		})
	}
}

func TestCoreNames(t *testing.T) {
	tests := []struct {
		name string
		nms  []Name
		want bool
	}{
		{"latin", []Name{{Family: "Smith", Given: "John"}}, true},
		{"persian given", []Name{{Family: "ربیعی", Given: "لیلا"}}, false},
		{"family only", []Name{{Family: "van der Berg"}}, false},
		{"none", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coreNames(tt.nms); got != tt.want {
				t.Errorf("coreNames() = %v, want %v", got, tt.want)
			}
		})
	}
}
