package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matsen/bipcite/internal/extract"
	"github.com/matsen/bipcite/internal/reference"
)

// SourceExtension marks records imported from best-guess JSON.
const SourceExtension = "extension"

// ExtensionEntry is one best-guess record as scraped from a web page.
type ExtensionEntry struct {
	ID             FlexibleString  `json:"id"`
	Title          string          `json:"title"`
	Authors        FlexibleAuthors `json:"authors"`
	Year           FlexibleString  `json:"year"`
	Date           string          `json:"date"`
	Journal        string          `json:"journal"`
	Venue          string          `json:"venue"`
	ContainerTitle string          `json:"container-title"`
	Volume         FlexibleString  `json:"volume"`
	Issue          FlexibleString  `json:"issue"`
	Pages          FlexibleString  `json:"pages"`
	Publisher      string          `json:"publisher"`
	DOI            string          `json:"doi"`
	ISBN           FlexibleString  `json:"isbn"`
	URL            string          `json:"url"`
	Language       string          `json:"language"`
}

var dateYear = regexp.MustCompile(`\b(\d{4})\b`)

// ParseExtension parses one best-guess JSON object or an array of them.
// Entries that cannot be converted are reported and skipped.
func ParseExtension(data []byte) ([]reference.Record, []error) {
	var entries []ExtensionEntry
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var one ExtensionEntry
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, []error{fmt.Errorf("parsing best-guess JSON: %w", err)}
		}
		entries = []ExtensionEntry{one}
	} else if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, []error{fmt.Errorf("parsing best-guess JSON: %w", err)}
	}

	var recs []reference.Record
	var errs []error
	for i, entry := range entries {
		rec, err := entry.Record()
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}
		recs = append(recs, rec)
	}
	return recs, errs
}

var errEmptyEntry = errors.New("entry has neither title nor authors")

// Record normalizes the entry. Unparseable optional fields are dropped.
func (e ExtensionEntry) Record() (reference.Record, error) {
	title := extract.Normalize(e.Title)
	if title == "" && len(e.Authors.Names) == 0 && len(e.Authors.Raw) == 0 {
		return reference.Record{}, errEmptyEntry
	}

	lang := reference.DetectLanguage(title + " " + e.Authors.text())
	if e.Language != "" {
		if l, err := reference.ParseLanguage(e.Language); err == nil {
			lang = l
		}
	}

	rec := reference.Record{
		Title:     strings.TrimRight(title, "."),
		Authors:   e.Authors.Resolve(lang),
		Year:      e.year(),
		Venue:     extract.Normalize(firstNonEmpty(e.Journal, e.Venue, e.ContainerTitle)),
		Volume:    extract.Normalize(e.Volume.String()),
		Issue:     extract.Normalize(e.Issue.String()),
		Pages:     strings.ReplaceAll(extract.Normalize(e.Pages.String()), "–", "-"),
		Publisher: extract.Normalize(e.Publisher),
		URL:       strings.TrimSpace(e.URL),
		Language:  lang,
		Source:    reference.ImportSource{Type: SourceExtension, ID: e.ID.String()},
	}

	ids := extract.Identifiers("doi:" + e.DOI + " isbn " + e.ISBN.String())
	rec.DOI, rec.ISBN = ids.DOI, ids.ISBN
	if rec.DOI == "" {
		rec.DOI = extract.Identifiers(rec.URL).DOI
	}
	return rec, nil
}

// year returns the year field, or the first four-digit run of the date,
// when it is a plausible publication year.
func (e ExtensionEntry) year() int {
	for _, s := range []string{e.Year.String(), e.Date} {
		s = extract.Normalize(s)
		if y, err := strconv.Atoi(s); err == nil {
			if reference.ValidYear(y) {
				return y
			}
			continue
		}
		if m := dateYear.FindStringSubmatch(s); m != nil {
			if y, _ := strconv.Atoi(m[1]); reference.ValidYear(y) {
				return y
			}
		}
	}
	return 0
}
