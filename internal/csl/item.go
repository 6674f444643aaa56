// Package csl formats records into citations and reference lists following
// the conventions of the Citation Style Language styles the engine supports.
//
// Formatter is the seam the renderers call through; Engine is the built-in
// implementation. Output is plain text: callers escape and wrap it.
package csl

import (
	"strconv"

	"github.com/matsen/bipcite/internal/reference"
)

// Item types.
const (
	TypeArticleJournal = "article-journal"
	TypeBook           = "book"
	TypeDocument       = "document"
)

// Name is one personal name in CSL form.
type Name struct {
	Family string `json:"family,omitempty"`
	Given  string `json:"given,omitempty"`
}

// Item is the subset of CSL-JSON the engine reads.
type Item struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Language       string `json:"language,omitempty"`
	Author         []Name `json:"author,omitempty"`
	Title          string `json:"title,omitempty"`
	ContainerTitle string `json:"container-title,omitempty"`
	Volume         string `json:"volume,omitempty"`
	Issue          string `json:"issue,omitempty"`
	Page           string `json:"page,omitempty"`
	Publisher      string `json:"publisher,omitempty"`
	DOI            string `json:"DOI,omitempty"`
	ISBN           string `json:"ISBN,omitempty"`
	URL            string `json:"URL,omitempty"`
	Issued         string `json:"issued,omitempty"` // year only
}

// FromRecord converts a stored record to an Item.
func FromRecord(rec reference.Record) Item {
	it := Item{
		ID:             rec.ID,
		Type:           itemType(rec),
		Language:       rec.Language.Locale(),
		Title:          rec.Title,
		ContainerTitle: rec.Venue,
		Volume:         rec.Volume,
		Issue:          rec.Issue,
		Page:           rec.Pages,
		Publisher:      rec.Publisher,
		DOI:            rec.DOI,
		ISBN:           rec.ISBN,
		URL:            rec.URL,
	}
	if rec.Year != 0 {
		it.Issued = strconv.Itoa(rec.Year)
	}
	for _, a := range rec.Authors {
		it.Author = append(it.Author, Name{Family: a.Last, Given: a.First})
	}
	return it
}

// FromRecords converts records in order.
func FromRecords(recs []reference.Record) []Item {
	items := make([]Item, len(recs))
	for i, r := range recs {
		items[i] = FromRecord(r)
	}
	return items
}

func itemType(rec reference.Record) string {
	switch {
	case rec.Venue != "":
		return TypeArticleJournal
	case rec.Publisher != "" || rec.ISBN != "":
		return TypeBook
	default:
		return TypeDocument
	}
}

// Year returns the issued year, or "n.d." when unknown.
func (it *Item) Year() string {
	if it.Issued == "" {
		return "n.d."
	}
	return it.Issued
}
