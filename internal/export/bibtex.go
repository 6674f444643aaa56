// Package export writes stored records in BibTeX.
package export

import (
	"fmt"
	"strings"

	"github.com/matsen/bipcite/internal/reference"
)

// ToBibTeX converts a record to a BibTeX entry keyed by its ID.
func ToBibTeX(rec reference.Record) string {
	entryType := EntryType(rec)
	var b strings.Builder

	fmt.Fprintf(&b, "@%s{%s,\n", entryType, rec.ID)

	if len(rec.Authors) > 0 {
		field(&b, "author", formatAuthors(rec.Authors))
	}
	field(&b, "title", escapeLatex(rec.Title))

	if rec.Venue != "" {
		name := "journal"
		if entryType == "inproceedings" {
			name = "booktitle"
		}
		field(&b, name, escapeLatex(rec.Venue))
	}
	if rec.Year > 0 {
		field(&b, "year", fmt.Sprint(rec.Year))
	}
	field(&b, "volume", escapeLatex(rec.Volume))
	field(&b, "number", escapeLatex(rec.Issue))
	field(&b, "pages", strings.ReplaceAll(rec.Pages, "-", "--"))
	field(&b, "publisher", escapeLatex(rec.Publisher))
	field(&b, "doi", rec.DOI)
	field(&b, "isbn", rec.ISBN)
	field(&b, "url", rec.URL)
	if rec.Language == reference.Persian {
		field(&b, "langid", "persian")
	}

	b.WriteString("}\n")
	return b.String()
}

// field writes one "name = {value}," line; empty values are omitted.
func field(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s = {%s},\n", name, value)
}

// ToBibTeXList converts multiple records to BibTeX.
func ToBibTeXList(recs []reference.Record) string {
	entries := make([]string, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, ToBibTeX(rec))
	}
	return strings.Join(entries, "\n")
}

// EntryType returns the BibTeX entry type for a record.
func EntryType(rec reference.Record) string {
	venue := strings.ToLower(rec.Venue)

	switch {
	case strings.Contains(venue, "proceedings"),
		strings.Contains(venue, "conference"),
		strings.Contains(venue, "workshop"),
		strings.Contains(venue, "symposium"),
		strings.Contains(venue, "همایش"),
		strings.Contains(venue, "کنفرانس"):
		return "inproceedings"
	case venue != "":
		return "article"
	case rec.Publisher != "" || rec.ISBN != "":
		return "book"
	default:
		return "misc"
	}
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []reference.Author) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.First != "" {
			formatted = append(formatted, escapeLatex(a.Last)+", "+escapeLatex(a.First))
		} else {
			formatted = append(formatted, escapeLatex(a.Last))
		}
	}
	return strings.Join(formatted, " and ")
}

// & must be replaced before anything that yields a backslash sequence.
var latexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

func escapeLatex(s string) string {
	return latexEscaper.Replace(s)
}
