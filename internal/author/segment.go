// Package author splits raw author strings from citations into ordered names.
//
// Two conventions are handled:
//   - Persian: "Lastname، Firstname" pairs, or whitespace-separated names whose
//     family/given boundary is chosen by a weighted split score.
//   - English: "Last, First", "Last, F.", Vancouver "Last FM" and bare
//     "First Last" forms, several authors joined by ",", ";", "&" or "and".
//
// Segment never fails; input it cannot make sense of yields an empty slice.
// All functions are safe for concurrent use.
package author

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/matsen/bipcite/internal/reference"
)

// etAlPattern matches trailing "et al." markers in either language.
var etAlPattern = regexp.MustCompile(`(?i)[,،]?\s*(?:\bet\.?\s*al\b\.?|و\s*همکاران)`)

// nameTrim is the punctuation stripped from both ends of a name part.
const nameTrim = " \t\n,;:،؛()[]\"'“”«»"

// stopwords are tokens that are never a name: connectors, function words and
// section labels that leak into the author segment.
var stopwords = map[string]bool{
	"and": true, "et": true, "al": true, "et al": true, "et al.": true,
	"the": true, "of": true, "in": true, "on": true, "for": true, "an": true,
	"with": true, "from": true, "by": true, "to": true,
	"journal": true, "references": true, "reference": true, "bibliography": true,
	"vol": true, "vol.": true, "no": true, "no.": true, "pp": true, "pp.": true,
	"ed": true, "ed.": true, "eds": true, "eds.": true, "editor": true, "editors": true,
	"available": true, "retrieved": true, "doi": true, "isbn": true,
	"و": true, "در": true, "از": true, "به": true, "با": true, "که": true,
	"همکاران": true, "منابع": true, "مراجع": true, "فهرست": true, "جلد": true, "شماره": true,
}

// Segment splits raw into authors using the conventions of lang.
// Candidates with a name part shorter than two characters, a part holding
// digits or brackets, or a stopword part are dropped; duplicates keep their
// first position.
func Segment(raw string, lang reference.Language) []reference.Author {
	raw = etAlPattern.ReplaceAllString(raw, " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []reference.Author{}
	}

	var candidates []reference.Author
	if lang == reference.Persian {
		candidates = segmentPersian(raw)
	} else {
		candidates = segmentEnglish(raw)
	}
	return filterAuthors(candidates)
}

// filterAuthors drops implausible candidates and duplicate pairs.
func filterAuthors(candidates []reference.Author) []reference.Author {
	out := make([]reference.Author, 0, len(candidates))
	seen := make(map[reference.Author]bool)
	for _, a := range candidates {
		a.First = trimSentencePeriod(strings.Trim(a.First, nameTrim))
		a.Last = strings.TrimRight(strings.Trim(a.Last, nameTrim), ".")
		if !plausibleNamePart(a.First) || !plausibleNamePart(a.Last) {
			continue
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// trimSentencePeriod drops a trailing period that closes a full word,
// keeping the period of a trailing initial.
func trimSentencePeriod(s string) string {
	if !strings.HasSuffix(s, ".") {
		return s
	}
	word := s[:len(s)-1]
	if i := strings.LastIndexFunc(word, func(r rune) bool { return !unicode.IsLetter(r) }); i >= 0 {
		word = word[i+1:]
	}
	if reference.RuneLen(word) > 1 {
		return s[:len(s)-1]
	}
	return s
}

func plausibleNamePart(s string) bool {
	if reference.RuneLen(s) < 2 {
		return false
	}
	if isNumeric(s) || strings.ContainsAny(s, "()[]") || strings.IndexFunc(s, unicode.IsDigit) >= 0 {
		return false
	}
	return !stopwords[strings.ToLower(s)]
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

// splitParts splits s on Latin and Persian commas and keeps only parts that
// contain a letter: a comma followed by a name token separates name parts,
// anything else is stray punctuation.
func splitParts(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '،' })
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, nameTrim)
		if hasLetter(f) {
			parts = append(parts, f)
		}
	}
	return parts
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
