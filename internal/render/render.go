// Package render produces in-text citations and bibliographies from stored
// records, delegating per-style formatting to a csl.Formatter.
//
// Rendering never fails: a record the formatter rejects is replaced by a
// deterministic fallback and the failure is logged.
package render

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/matsen/bipcite/internal/csl"
	"github.com/matsen/bipcite/internal/reference"
)

// Headings label the per-language sections of a bibliography.
type Headings struct {
	Persian string
	English string
}

// Default section headings, by document language.
var (
	EnglishHeadings = Headings{Persian: "Persian sources", English: "English sources"}
	PersianHeadings = Headings{Persian: "منابع فارسی", English: "منابع انگلیسی"}
)

// Renderer renders citations and bibliographies.
type Renderer struct {
	formatter csl.Formatter
	log       zerolog.Logger
	headings  *Headings
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHeadings overrides the section headings for every document language.
func WithHeadings(h Headings) Option {
	return func(r *Renderer) { r.headings = &h }
}

// New returns a Renderer formatting through f.
func New(f csl.Formatter, log zerolog.Logger, opts ...Option) *Renderer {
	r := &Renderer{formatter: f, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) headingsFor(lang reference.Language) Headings {
	if r.headings != nil {
		return *r.headings
	}
	if lang == reference.Persian {
		return PersianHeadings
	}
	return EnglishHeadings
}

// fallbackCite is the in-text form used when formatting fails: "(Author, Year)".
func fallbackCite(recs []reference.Record) string {
	if len(recs) == 0 {
		return "(Author, Year)"
	}
	parts := make([]string, len(recs))
	for i, rec := range recs {
		name := "Author"
		if len(rec.Authors) > 0 {
			name = rec.Authors[0].Last
		}
		year := "Year"
		if rec.Year != 0 {
			year = strconv.Itoa(rec.Year)
		}
		parts[i] = name + ", " + year
	}
	return "(" + strings.Join(parts, "; ") + ")"
}

// fallbackEntry is the reference line used when formatting fails:
// "{Author}. ({Year}). {Title}."
func fallbackEntry(rec reference.Record) string {
	names := make([]string, 0, len(rec.Authors))
	for _, a := range rec.Authors {
		names = append(names, a.Full())
	}
	author := strings.Join(names, ", ")
	if author == "" {
		author = "Anonymous"
	}
	year := "n.d."
	if rec.Year != 0 {
		year = strconv.Itoa(rec.Year)
	}
	title := strings.TrimRight(rec.Title, ".")
	if title == "" {
		title = "Untitled"
	}
	return author + ". (" + year + "). " + title + "."
}
