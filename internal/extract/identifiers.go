package extract

import (
	"regexp"
	"strings"
)

var (
	urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

	// doiPattern matches a bare DOI or one behind a "doi:" label or resolver URL.
	doiPattern = regexp.MustCompile(`(?i)(?:doi:?\s*|https?://(?:dx\.)?doi\.org/)?(10\.\d{4,9}/[^\s<>"{}|\\^\[\]]+)`)

	isbnPattern = regexp.MustCompile(`(?i)\bisbn(?:-1[03])?\s*:?\s*([0-9][0-9\- ]{8,16}[0-9Xx])`)
)

// IDs holds the identifiers found in a citation.
type IDs struct {
	DOI  string
	ISBN string
	URL  string
}

// Identifiers extracts the first DOI, ISBN and URL from text. A DOI found
// inside a doi.org URL is reported as a DOI and not as a URL.
func Identifiers(text string) IDs {
	var ids IDs
	if m := doiPattern.FindStringSubmatch(text); m != nil {
		ids.DOI = strings.TrimRight(m[1], ".,;:)")
	}
	if m := isbnPattern.FindStringSubmatch(text); m != nil {
		if isbn := cleanISBN(m[1]); isbn != "" {
			ids.ISBN = isbn
		}
	}
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:)")
		if ids.DOI != "" && strings.Contains(strings.ToLower(u), "doi.org/") {
			continue
		}
		ids.URL = u
		break
	}
	return ids
}

// cleanISBN strips separators and returns the ISBN if it has 10 or 13 digits.
func cleanISBN(s string) string {
	s = strings.NewReplacer("-", "", " ", "").Replace(s)
	if len(s) != 10 && len(s) != 13 {
		return ""
	}
	return strings.ToUpper(s)
}
