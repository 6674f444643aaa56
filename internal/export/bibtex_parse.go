package export

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/matsen/bipcite/internal/reference"
)

// BibTeXIndex indexes existing BibTeX entries for deduplication.
type BibTeXIndex struct {
	// Keys holds the citation keys already present.
	Keys map[string]bool
	// DOIs maps normalized DOIs to citation keys.
	DOIs map[string]string
}

// NewBibTeXIndex creates an empty BibTeX index.
func NewBibTeXIndex() *BibTeXIndex {
	return &BibTeXIndex{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// HasEntry reports whether an entry already exists. DOI is the primary
// match; the citation key is the fallback.
func (idx *BibTeXIndex) HasEntry(key, doi string) bool {
	if doi != "" {
		if _, exists := idx.DOIs[normalizeDOI(doi)]; exists {
			return true
		}
	}
	return idx.Keys[key]
}

// Add records an entry in the index.
func (idx *BibTeXIndex) Add(key, doi string) {
	idx.Keys[key] = true
	if d := normalizeDOI(doi); d != "" {
		idx.DOIs[d] = key
	}
}

var (
	entryStartRegex = regexp.MustCompile(`@\w+\{([^,]+),`)
	doiFieldRegex   = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// ParseBibTeXFile builds an index from an existing .bib file.
// A missing file yields an empty index.
func ParseBibTeXFile(path string) (*BibTeXIndex, error) {
	idx := NewBibTeXIndex()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var currentKey string
	for scanner.Scan() {
		line := scanner.Text()
		if m := entryStartRegex.FindStringSubmatch(line); m != nil {
			currentKey = strings.TrimSpace(m[1])
			idx.Keys[currentKey] = true
		}
		if m := doiFieldRegex.FindStringSubmatch(line); m != nil && currentKey != "" {
			if doi := normalizeDOI(m[1]); doi != "" {
				idx.DOIs[doi] = currentKey
			}
		}
	}
	return idx, scanner.Err()
}

// normalizeDOI strips resolver prefixes and lowercases.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi.org/", "DOI:", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.ToLower(doi)
}

// AppendNew appends the records not already in the .bib file at path and
// returns how many were written and how many were skipped.
func AppendNew(path string, recs []reference.Record) (added, skipped int, err error) {
	idx, err := ParseBibTeXFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", path, err)
	}

	var fresh []reference.Record
	for _, rec := range recs {
		if idx.HasEntry(rec.ID, rec.DOI) {
			skipped++
			continue
		}
		idx.Add(rec.ID, rec.DOI)
		fresh = append(fresh, rec)
	}
	if len(fresh) == 0 {
		return 0, skipped, nil
	}
	if err := AppendToBibFile(path, ToBibTeXList(fresh)); err != nil {
		return 0, skipped, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(fresh), skipped, nil
}

// AppendToBibFile appends BibTeX content to a file.
func AppendToBibFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString("\n" + content)
	return err
}
