package reference

import (
	"strings"
	"unicode"
)

// Author is one personal name as segmented from a citation.
type Author struct {
	First string `json:"firstname"` // Given name(s) or initials
	Last  string `json:"lastname"`  // Family name, may span several words
}

// Full returns "First Last", or only the family name when no given name is known.
func (a Author) Full() string {
	if a.First == "" {
		return a.Last
	}
	return a.First + " " + a.Last
}

// Initials returns the given names abbreviated, e.g. "John Ronald" -> "J. R.".
// Already abbreviated names are returned unchanged.
func (a Author) Initials() string {
	var parts []string
	for _, f := range strings.Fields(a.First) {
		r := []rune(f)
		if len(r) <= 2 && strings.HasSuffix(f, ".") {
			parts = append(parts, f)
			continue
		}
		if len(r) <= 3 && allUpper(r) {
			// Vancouver-style "JA"
			for _, c := range r {
				parts = append(parts, string(c)+".")
			}
			continue
		}
		parts = append(parts, string(r[0])+".")
	}
	return strings.Join(parts, " ")
}

func allUpper(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
