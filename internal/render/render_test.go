package render

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/matsen/bipcite/internal/csl"
	"github.com/matsen/bipcite/internal/reference"
)

func rec(id, title, last string, year int, lang reference.Language) reference.Record {
	return reference.Record{
		ID:       id,
		Title:    title,
		Authors:  []reference.Author{{First: "J.", Last: last}},
		Year:     year,
		Venue:    "Journal",
		Volume:   "1",
		Language: lang,
	}
}

func newRenderer() *Renderer {
	return New(csl.NewEngine(), zerolog.Nop())
}

func TestRenderInText_VancouverRoundTrip(t *testing.T) {
	r := newRenderer()
	records := []reference.Record{
		rec("A", "Alpha title", "Adams", 2001, reference.English),
		rec("B", "Beta title", "Brown", 2002, reference.English),
		rec("C", "Gamma title", "Clark", 2003, reference.English),
	}
	order := NewVancouverOrder("A", "B", "C")

	if got := r.RenderInText(records, reference.Vancouver, []string{"B"}, reference.English, order); got != "[2]" {
		t.Fatalf("RenderInText() = %q, want [2]", got)
	}
	order.Append("D")
	if got := r.RenderInText(records, reference.Vancouver, []string{"B"}, reference.English, order); got != "[2]" {
		t.Errorf("after append RenderInText() = %q, want [2]", got)
	}
}

func TestRenderInText_VancouverMultiple(t *testing.T) {
	r := newRenderer()
	order := NewVancouverOrder("a", "b", "c", "d", "e")
	got := r.RenderInText(nil, reference.Vancouver, []string{"e", "a", "c", "a"}, reference.English, order)
	if got != "[1,3,5]" {
		t.Errorf("RenderInText() = %q, want [1,3,5]", got)
	}
}

func TestRenderInText_VancouverMissingIDGetsNext(t *testing.T) {
	r := newRenderer()
	order := NewVancouverOrder("a", "b")
	if got := r.RenderInText(nil, reference.Vancouver, []string{"z"}, reference.English, order); got != "[3]" {
		t.Errorf("first = %q, want [3]", got)
	}
	if got := r.RenderInText(nil, reference.Vancouver, []string{"z"}, reference.English, order); got != "[3]" {
		t.Errorf("second = %q, want [3]", got)
	}
}

func TestVancouverExample(t *testing.T) {
	r := newRenderer()
	records := []reference.Record{
		rec("src1", "First source title", "Adams", 2001, reference.English),
		rec("src2", "Second source title", "Brown", 2002, reference.English),
		rec("src3", "Third source title", "Clark", 2003, reference.English),
	}
	order := NewVancouverOrder("src2", "src1", "src3")

	if got := r.RenderInText(records, reference.Vancouver, []string{"src1"}, reference.English, order); got != "[2]" {
		t.Errorf("src1 = %q, want [2]", got)
	}
	if got := r.RenderInText(records, reference.Vancouver, []string{"src3"}, reference.English, order); got != "[3]" {
		t.Errorf("src3 = %q, want [3]", got)
	}

	bib := r.RenderBibliography(records, reference.Vancouver, reference.English, order)
	i2 := strings.Index(bib, ">1. Brown J. Second source title.")
	i1 := strings.Index(bib, ">2. Adams J. First source title.")
	i3 := strings.Index(bib, ">3. Clark J. Third source title.")
	if i2 < 0 || i1 < 0 || i3 < 0 {
		t.Fatalf("missing numbered entries in %s", bib)
	}
	if !(i2 < i1 && i1 < i3) {
		t.Errorf("entries out of order: %d %d %d", i2, i1, i3)
	}
}

func TestRenderBibliography_VancouverDirection(t *testing.T) {
	r := newRenderer()
	records := []reference.Record{
		rec("fa", "بررسی جامعه شناختی قمار آنلاین", "ربیعی", 1401, reference.Persian),
		rec("en", "An English title", "Smith", 2020, reference.English),
	}
	bib := r.RenderBibliography(records, reference.Vancouver, reference.English, NewVancouverOrder("fa", "en"))
	if !strings.Contains(bib, `<div class="csl-entry" dir="rtl" style="text-align: right;">1. `) {
		t.Errorf("Persian entry not right-to-left: %s", bib)
	}
	if !strings.Contains(bib, `<div class="csl-entry" dir="ltr" style="text-align: left;">2. `) {
		t.Errorf("English entry not left-to-right: %s", bib)
	}
}

func TestRenderBibliography_VancouverMissingSortsLast(t *testing.T) {
	r := newRenderer()
	records := []reference.Record{
		rec("x", "Unordered title", "Xu", 2010, reference.English),
		rec("a", "Ordered title", "Ames", 2011, reference.English),
	}
	order := NewVancouverOrder("a")
	bib := r.RenderBibliography(records, reference.Vancouver, reference.English, order)
	if !strings.Contains(bib, ">1. Ames J.") || !strings.Contains(bib, ">2. Xu J.") {
		t.Errorf("unexpected numbering: %s", bib)
	}
	if n, ok := order.Position("x"); !ok || n != 2 {
		t.Errorf("Position(x) = %d, %v; want 2, true", n, ok)
	}
}

func TestRenderBibliography_Idempotent(t *testing.T) {
	r := newRenderer()
	records := []reference.Record{
		rec("1", "Zeta title", "Zane", 2001, reference.English),
		rec("2", "Alpha title", "Abel", 2002, reference.English),
		rec("3", "بررسی جامعه شناختی قمار آنلاین", "ربیعی", 1401, reference.Persian),
	}
	for _, st := range []reference.Style{reference.APA, reference.Vancouver} {
		first := r.RenderBibliography(records, st, reference.English, NewVancouverOrder("3", "1", "2"))
		second := r.RenderBibliography(records, st, reference.English, NewVancouverOrder("3", "1", "2"))
		if first != second {
			t.Errorf("%v: output differs between calls", st)
		}
	}
}

func TestRenderBibliography_LanguagePartition(t *testing.T) {
	r := newRenderer()
	persianTitles := []string{"بررسی جامعه شناختی قمار آنلاین", "تاریخ ادبیات فارسی معاصر"}
	records := []reference.Record{
		rec("e1", "Zebra migration patterns", "Zane", 2001, reference.English),
		rec("p1", persianTitles[0], "ربیعی", 1401, reference.Persian),
		rec("e2", "Anatomy of the ant", "Abel", 2002, reference.English),
		rec("p2", persianTitles[1], "احمدی", 1398, reference.Persian),
	}
	bib := r.RenderBibliography(records, reference.APA, reference.English, nil)

	enStart := strings.Index(bib, EnglishHeadings.English)
	faStart := strings.Index(bib, EnglishHeadings.Persian)
	if enStart < 0 || faStart < 0 {
		t.Fatalf("missing section headings: %s", bib)
	}
	persianSection, englishSection := bib[faStart:enStart], bib[enStart:]
	for _, title := range persianTitles {
		if !strings.Contains(persianSection, title) {
			t.Errorf("Persian section missing %q", title)
		}
		if strings.Contains(englishSection, title) {
			t.Errorf("English section contains %q", title)
		}
	}
	if a, z := strings.Index(englishSection, "Anatomy"), strings.Index(englishSection, "Zebra"); a < 0 || z < 0 || a > z {
		t.Errorf("English section not sorted by title")
	}
}

func TestRenderBibliography_EmptyBucketOmitted(t *testing.T) {
	r := newRenderer()
	bib := r.RenderBibliography([]reference.Record{rec("e", "Only English here", "Smith", 2020, reference.English)}, reference.APA, reference.English, nil)
	if strings.Contains(bib, EnglishHeadings.Persian) {
		t.Errorf("empty Persian section rendered: %s", bib)
	}
	if !strings.HasPrefix(bib, `<div class="csl-bib-body">`) || !strings.HasSuffix(bib, `</div>`) {
		t.Errorf("missing body wrapper: %s", bib)
	}
}

func TestRenderBibliography_Headings(t *testing.T) {
	records := []reference.Record{rec("p", "بررسی جامعه شناختی قمار آنلاین", "ربیعی", 1401, reference.Persian)}

	bib := newRenderer().RenderBibliography(records, reference.APA, reference.Persian, nil)
	if !strings.Contains(bib, PersianHeadings.Persian) {
		t.Errorf("Persian document heading missing: %s", bib)
	}

	custom := New(csl.NewEngine(), zerolog.Nop(), WithHeadings(Headings{Persian: "FA", English: "EN"}))
	if bib := custom.RenderBibliography(records, reference.APA, reference.Persian, nil); !strings.Contains(bib, ">FA</h3>") {
		t.Errorf("custom heading missing: %s", bib)
	}
}

func TestRenderInText_PersianLocalized(t *testing.T) {
	r := newRenderer()
	record := reference.Record{
		ID:    "p",
		Title: "بررسی جامعه شناختی قمار آنلاین",
		Authors: []reference.Author{
			{First: "لیلا", Last: "ربیعی"},
			{First: "سارا", Last: "یوسفی خواه"},
		},
		Year:     1401,
		Language: reference.Persian,
	}
	got := r.RenderInText([]reference.Record{record}, reference.APA, nil, reference.Persian, nil)
	if want := "(ربیعی و یوسفی خواه، 1401)"; got != want {
		t.Errorf("RenderInText() = %q, want %q", got, want)
	}
}

type failingFormatter struct{ panics bool }

func (f failingFormatter) Citation([]csl.Item, string, string) (string, error) {
	if f.panics {
		panic("boom")
	}
	return "", errors.New("formatter down")
}

func (f failingFormatter) Bibliography([]csl.Item, string, string) ([]string, error) {
	if f.panics {
		panic("boom")
	}
	return nil, errors.New("formatter down")
}

func TestRender_Fallbacks(t *testing.T) {
	records := []reference.Record{rec("s", "Resilient systems", "Smith", 2024, reference.English)}
	for _, f := range []failingFormatter{{panics: false}, {panics: true}} {
		r := New(f, zerolog.Nop())
		if got := r.RenderInText(records, reference.APA, []string{"s"}, reference.English, nil); got != "(Smith, 2024)" {
			t.Errorf("panics=%v in-text = %q", f.panics, got)
		}
		bib := r.RenderBibliography(records, reference.APA, reference.English, nil)
		if !strings.Contains(bib, "J. Smith. (2024). Resilient systems.") {
			t.Errorf("panics=%v bibliography = %s", f.panics, bib)
		}
	}
}

func TestRender_IncompleteRecordFallsBackAlone(t *testing.T) {
	r := newRenderer()
	records := []reference.Record{
		rec("ok", "A complete record", "Smith", 2020, reference.English),
		{ID: "bad", Year: 2021},
	}
	bib := r.RenderBibliography(records, reference.APA, reference.English, nil)
	if !strings.Contains(bib, "Anonymous. (2021). Untitled.") {
		t.Errorf("fallback line missing: %s", bib)
	}
	if !strings.Contains(bib, "Smith, J. (2020). A complete record.") {
		t.Errorf("good record not formatted: %s", bib)
	}
}

func TestVancouverOrder(t *testing.T) {
	o := NewVancouverOrder("a", "b", "a")
	if o.Len() != 2 {
		t.Errorf("Len() = %d, want 2", o.Len())
	}
	if n, _ := o.Position("b"); n != 2 {
		t.Errorf("Position(b) = %d, want 2", n)
	}
	if n := o.Assign("c"); n != 3 {
		t.Errorf("Assign(c) = %d, want 3", n)
	}
	o.Reset()
	if _, ok := o.Position("a"); ok || o.Len() != 0 {
		t.Errorf("Reset did not clear order")
	}
	if n := o.Assign("z"); n != 1 {
		t.Errorf("Assign after Reset = %d, want 1", n)
	}
}

func TestVancouverOrder_Concurrent(t *testing.T) {
	o := NewVancouverOrder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			o.Assign(id)
		}(string(rune('a' + i%10)))
	}
	wg.Wait()
	if o.Len() != 10 {
		t.Errorf("Len() = %d, want 10", o.Len())
	}
	seen := map[int]bool{}
	for i := 0; i < 10; i++ {
		n, ok := o.Position(string(rune('a' + i)))
		if !ok || n < 1 || n > 10 || seen[n] {
			t.Errorf("bad position %d for %c", n, 'a'+i)
		}
		seen[n] = true
	}
}
