package csl

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/matsen/bipcite/internal/style"
)

var (
	// ErrUnknownStyle is returned for a style identifier the engine has no
	// template for.
	ErrUnknownStyle = errors.New("unknown citation style")

	// ErrIncompleteItem is returned for an item with neither title nor authors.
	ErrIncompleteItem = errors.New("item has neither title nor authors")
)

// Formatter renders items in a named style for a locale.
type Formatter interface {
	// Citation renders one in-text citation covering all items.
	Citation(items []Item, styleID, locale string) (string, error)
	// Bibliography renders one reference entry per item, in item order.
	Bibliography(items []Item, styleID, locale string) ([]string, error)
}

// terms are the locale-dependent pieces of a template. yearSep sits between
// the names and the year of an in-text citation, itemSep between cited items.
type terms struct {
	openQuote, closeQuote string
	yearSep, itemSep      string
}

var (
	englishTerms = terms{openQuote: "“", closeQuote: "”", yearSep: ", ", itemSep: "; "}
	persianTerms = terms{openQuote: "«", closeQuote: "»", yearSep: "، ", itemSep: "؛ "}
)

type template struct {
	cite func(items []Item, t terms) string
	ref  func(n int, it *Item, t terms) string
}

// Engine is the built-in Formatter.
type Engine struct {
	templates map[string]template
}

// NewEngine returns an Engine with the APA, Harvard, MLA, Chicago
// author-date and Vancouver templates.
func NewEngine() *Engine {
	return &Engine{templates: map[string]template{
		style.IDAPA:       {cite: citeAPA, ref: refAPA},
		style.IDHarvard:   {cite: citeHarvard, ref: refHarvard},
		style.IDMLA:       {cite: citeMLA, ref: refMLA},
		style.IDChicago:   {cite: citeChicago, ref: refChicago},
		style.IDVancouver: {cite: citeVancouver, ref: refVancouver},
	}}
}

// Styles returns the supported style identifiers, sorted.
func (e *Engine) Styles() []string {
	ids := make([]string, 0, len(e.templates))
	for id := range e.templates {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Citation implements Formatter.
func (e *Engine) Citation(items []Item, styleID, locale string) (string, error) {
	tpl, t, err := e.prepare(items, styleID, locale)
	if err != nil {
		return "", err
	}
	return tpl.cite(items, t), nil
}

// Bibliography implements Formatter.
func (e *Engine) Bibliography(items []Item, styleID, locale string) ([]string, error) {
	tpl, t, err := e.prepare(items, styleID, locale)
	if err != nil {
		return nil, err
	}
	entries := make([]string, len(items))
	for i := range items {
		entries[i] = tpl.ref(i+1, &items[i], t)
	}
	return entries, nil
}

func (e *Engine) prepare(items []Item, styleID, locale string) (template, terms, error) {
	tpl, ok := e.templates[styleID]
	if !ok {
		return template{}, terms{}, fmt.Errorf("%w: %q", ErrUnknownStyle, styleID)
	}
	t, err := localeTerms(locale)
	if err != nil {
		return template{}, terms{}, err
	}
	for i := range items {
		if items[i].Title == "" && len(items[i].Author) == 0 {
			return template{}, terms{}, fmt.Errorf("item %q: %w", items[i].ID, ErrIncompleteItem)
		}
	}
	return tpl, t, nil
}

func localeTerms(locale string) (terms, error) {
	if locale == "" {
		return englishTerms, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return terms{}, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	if base, _ := tag.Base(); base.String() == "fa" {
		return persianTerms, nil
	}
	return englishTerms, nil
}

// EnsurePeriod returns s ending with a period unless it already ends in
// punctuation.
func EnsurePeriod(s string) string {
	if s == "" {
		return s
	}
	if r, _ := utf8.DecodeLastRuneInString(s); !unicode.IsPunct(r) {
		s += "."
	}
	return s
}

// citeLead is the name part of an in-text citation, the title when there
// are no authors.
func citeLead(it *Item, conj string) string {
	if len(it.Author) == 0 {
		return it.Title
	}
	return NamesCiteEtAl(it.Author, conj)
}

// entry accumulates the space-separated chunks of one reference.
type entry []string

func (e *entry) add(s string) {
	if s = strings.TrimSpace(s); s != "" {
		*e = append(*e, s)
	}
}

func (e entry) String() string {
	return strings.Join(e, " ")
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// link returns the DOI as a resolver URL, or the plain URL.
func link(it *Item) string {
	if it.DOI != "" {
		return "https://doi.org/" + it.DOI
	}
	return it.URL
}
