package csl

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	ccsl "cogentcore.org/core/text/csl"
)

// APA is rendered by cogentcore's CSL package. Two gaps are covered here:
// its name formatters take initials a byte at a time and split a lone
// family name on spaces, so Persian names go through the local formatters,
// and its parenthetical citation hardcodes the Latin comma.

func citeAPA(items []Item, t terms) string {
	parts := make([]string, len(items))
	for i := range items {
		it := &items[i]
		if t == englishTerms && it.Issued != "" && coreNames(it.Author) {
			ci := coreItem(it)
			parts[i] = ccsl.CiteAPA(ccsl.Parenthetical, &ci)
			continue
		}
		parts[i] = citeLead(it, "&") + t.yearSep + it.Year()
	}
	return "(" + strings.Join(parts, t.itemSep) + ")"
}

func refAPA(_ int, it *Item, _ terms) string {
	ci := coreItem(it)
	names := NamesLastFirstInitialCommaAmpersand(it.Author)
	if coreNames(it.Author) {
		names = ccsl.NamesLastFirstInitialCommaAmpersand(ci.Author)
	}
	ci.Author = nil
	body := string(ccsl.RefAPA(&ci).Join())
	if y := ci.Issued.Year(); y != it.Year() {
		body = strings.Replace(body, "("+y+")", "("+it.Year()+")", 1)
	}
	return tidy(EnsurePeriod(names) + " " + body)
}

// coreNames reports whether every name has both parts and ASCII initials,
// the input the cogentcore name formatters render faithfully.
func coreNames(nms []Name) bool {
	if len(nms) == 0 {
		return false
	}
	for _, n := range nms {
		if n.Family == "" || n.Given == "" {
			return false
		}
		for _, f := range strings.Fields(n.Given) {
			if f[0] >= utf8.RuneSelf {
				return false
			}
		}
	}
	return true
}

// coreItem converts it to the cogentcore item model. The model reads the
// issue of an article from Number.
func coreItem(it *Item) ccsl.Item {
	ci := ccsl.Item{
		Type:           coreType(it.Type),
		ID:             it.ID,
		Language:       it.Language,
		Title:          it.Title,
		ContainerTitle: it.ContainerTitle,
		Volume:         it.Volume,
		Issue:          it.Issue,
		Number:         it.Issue,
		Page:           it.Page,
		Publisher:      it.Publisher,
		DOI:            it.DOI,
		ISBN:           it.ISBN,
		URL:            it.URL,
		Issued:         coreDate(it.Issued),
	}
	for _, n := range it.Author {
		ci.Author = append(ci.Author, ccsl.Name{Family: n.Family, Given: n.Given})
	}
	return ci
}

func coreType(t string) ccsl.Types {
	switch t {
	case TypeBook:
		return ccsl.Book
	case TypeArticleJournal:
		return ccsl.ArticleJournal
	default:
		return ccsl.Article
	}
}

// coreDate decodes a year as CSL-JSON date parts. year is empty or the
// decimal form of an int.
func coreDate(year string) ccsl.Date {
	var d ccsl.Date
	if year == "" {
		return d
	}
	if err := json.Unmarshal([]byte(`{"date-parts":[[`+year+`]]}`), &d); err != nil {
		return ccsl.Date{}
	}
	return d
}

// tidy collapses the space runs the span builders leave between chunks and
// closes an entry that ends on a dangling comma.
func tidy(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if trimmed, ok := strings.CutSuffix(s, ","); ok {
		s = EnsurePeriod(trimmed)
	}
	return s
}
