package render

import (
	"fmt"
	"html"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matsen/bipcite/internal/csl"
	"github.com/matsen/bipcite/internal/localize"
	"github.com/matsen/bipcite/internal/reference"
	"github.com/matsen/bipcite/internal/style"
)

// emittedNumber is a sequence number the formatter may prefix an entry with.
var emittedNumber = regexp.MustCompile(`^\s*(?:\[\d+\]|\(\d+\)|\d+\.)\s*`)

// RenderBibliography renders the reference list for records as an HTML
// fragment.
//
// Vancouver lists are sorted by order, sources missing from it last, and
// every entry is formatted on its own in its record's language. Other
// styles render a Persian and an English section, each sorted by title;
// an empty section is omitted. lang picks the section headings.
func (r *Renderer) RenderBibliography(records []reference.Record, st reference.Style, lang reference.Language, order *VancouverOrder) string {
	var b strings.Builder
	b.WriteString(`<div class="csl-bib-body">`)
	if st == reference.Vancouver {
		if order == nil {
			order = NewVancouverOrder()
		}
		r.writeVancouver(&b, records, order)
	} else {
		r.writeSectioned(&b, records, st, lang)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func (r *Renderer) writeVancouver(b *strings.Builder, records []reference.Record, order *VancouverOrder) {
	type numbered struct {
		n   int
		rec reference.Record
	}
	var known, missing []numbered
	for _, rec := range records {
		if n, ok := order.Position(rec.ID); ok {
			known = append(known, numbered{n, rec})
		} else {
			missing = append(missing, numbered{rec: rec})
		}
	}
	slices.SortStableFunc(known, func(a, b numbered) int { return a.n - b.n })
	for i := range missing {
		missing[i].n = order.Assign(missing[i].rec.ID)
	}

	for _, e := range append(known, missing...) {
		text := r.entry(e.rec, style.IDVancouver)
		text = emittedNumber.ReplaceAllString(text, "")
		writeEntry(b, e.rec.Language, strconv.Itoa(e.n)+". "+text)
	}
}

func (r *Renderer) writeSectioned(b *strings.Builder, records []reference.Record, st reference.Style, lang reference.Language) {
	var persian, english []reference.Record
	for _, rec := range records {
		if rec.Language == reference.Persian {
			persian = append(persian, rec)
		} else {
			english = append(english, rec)
		}
	}

	h := r.headingsFor(lang)
	id := style.ID(st)
	for _, sec := range []struct {
		lang    reference.Language
		heading string
		recs    []reference.Record
	}{
		{reference.Persian, h.Persian, persian},
		{reference.English, h.English, english},
	} {
		if len(sec.recs) == 0 {
			continue
		}
		sortByTitle(sec.recs, sec.lang)
		b.WriteString(`<h3 class="bib-section" dir="` + dir(sec.lang) + `">`)
		b.WriteString(html.EscapeString(sec.heading))
		b.WriteString(`</h3>`)
		for i, text := range r.batch(sec.recs, id, sec.lang) {
			writeEntry(b, sec.recs[i].Language, text)
		}
	}
}

// batch formats recs in one formatter call, falling back to formatting
// each record on its own when the batch is rejected.
func (r *Renderer) batch(recs []reference.Record, id string, lang reference.Language) []string {
	entries, err := r.safeBibliography(csl.FromRecords(recs), id, lang.Locale())
	if err != nil || len(entries) != len(recs) {
		r.log.Warn().Err(err).Str("style", id).Int("records", len(recs)).Msg("batch render failed, rendering per record")
		entries = make([]string, len(recs))
		for i, rec := range recs {
			entries[i] = r.entry(rec, id)
		}
		return entries
	}
	if lang == reference.Persian {
		for i := range entries {
			entries[i] = localize.Localize(entries[i])
		}
	}
	return entries
}

// entry formats one record in its own language, or returns the fallback
// line.
func (r *Renderer) entry(rec reference.Record, id string) string {
	entries, err := r.safeBibliography([]csl.Item{csl.FromRecord(rec)}, id, rec.Language.Locale())
	if err != nil || len(entries) != 1 {
		r.log.Warn().Err(err).Str("id", rec.ID).Str("style", id).Msg("entry render failed, using fallback")
		return fallbackEntry(rec)
	}
	if rec.Language == reference.Persian {
		return localize.Localize(entries[0])
	}
	return entries[0]
}

// safeBibliography calls the formatter, turning a panic into an error.
func (r *Renderer) safeBibliography(items []csl.Item, id, locale string) (entries []string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("formatter panic: %v", p)
		}
	}()
	return r.formatter.Bibliography(items, id, locale)
}

// sortByTitle sorts recs by title under the collation rules of lang.
func sortByTitle(recs []reference.Record, lang reference.Language) {
	tag := language.English
	if lang == reference.Persian {
		tag = language.Persian
	}
	c := collate.New(tag, collate.IgnoreCase)
	slices.SortStableFunc(recs, func(a, b reference.Record) int {
		return c.CompareString(a.Title, b.Title)
	})
}

func writeEntry(b *strings.Builder, lang reference.Language, text string) {
	b.WriteString(`<div class="csl-entry" dir="` + dir(lang) + `" style="text-align: ` + align(lang) + `;">`)
	b.WriteString(html.EscapeString(text))
	b.WriteString(`</div>`)
}

func dir(lang reference.Language) string {
	if lang == reference.Persian {
		return "rtl"
	}
	return "ltr"
}

func align(lang reference.Language) string {
	if lang == reference.Persian {
		return "right"
	}
	return "left"
}
