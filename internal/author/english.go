package author

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/matsen/bipcite/internal/reference"
)

// englishAuthorSep separates whole authors.
var englishAuthorSep = regexp.MustCompile(`(?i)\s*(?:;|&|\band\b)\s*`)

// initialsToken matches "J.", "J.A.", "J.-P." and Vancouver-style "JA".
var initialsToken = regexp.MustCompile(`^(?:\p{Lu}\.?-?)+$`)

// particles start a multi-word family name ("van der Berg", "de la Cruz").
var particles = map[string]bool{
	"van": true, "von": true, "der": true, "den": true, "de": true, "del": true,
	"della": true, "da": true, "di": true, "du": true, "la": true, "le": true,
	"bin": true, "ibn": true, "al": true, "el": true, "ter": true, "ten": true,
}

func segmentEnglish(raw string) []reference.Author {
	var out []reference.Author
	for _, chunk := range englishAuthorSep.Split(raw, -1) {
		parts := splitParts(chunk)
		for i := 0; i < len(parts); i++ {
			if i+1 < len(parts) && !isFullName(parts[i]) && isGivenPart(parts[i+1]) {
				out = append(out, reference.Author{
					Last:  parts[i],
					First: normalizeInitials(parts[i+1]),
				})
				i++
				continue
			}
			out = append(out, splitEnglishName(parts[i]))
		}
	}
	return out
}

// isInitials reports whether every token of s is an initial.
func isInitials(s string) bool {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !isInitialToken(t) {
			return false
		}
	}
	return true
}

func isInitialToken(t string) bool {
	if !initialsToken.MatchString(t) {
		return false
	}
	// Bare capitals longer than three letters are acronyms, not initials.
	letters := 0
	for _, r := range t {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters <= 3
}

// isGivenPart reports whether s can be the given-name half of "Last, First":
// initials, a single word, or a word followed by initials ("John A.").
func isGivenPart(s string) bool {
	tokens := strings.Fields(s)
	switch {
	case len(tokens) == 0:
		return false
	case isInitials(s), len(tokens) == 1:
		return startsUpper(tokens[0])
	case len(tokens) <= 3:
		return startsUpper(tokens[0]) && isInitials(strings.Join(tokens[1:], " "))
	}
	return false
}

// isFullName reports whether s already carries both halves of a name,
// i.e. it has leading or trailing initials ("J. Smith", "Smith JA").
func isFullName(s string) bool {
	tokens := strings.Fields(s)
	if len(tokens) < 2 {
		return false
	}
	return isInitialToken(tokens[0]) || isInitialToken(tokens[len(tokens)-1])
}

// splitEnglishName splits a comma-free name.
func splitEnglishName(name string) reference.Author {
	tokens := strings.Fields(name)
	n := len(tokens)
	switch {
	case n == 0:
		return reference.Author{}
	case n == 1:
		return reference.Author{Last: tokens[0]}
	}

	// Vancouver: "Smith JA", "van der Berg J"
	if j := trailingInitials(tokens); j < n && j > 0 {
		return reference.Author{
			Last:  strings.Join(tokens[:j], " "),
			First: normalizeInitials(strings.Join(tokens[j:], " ")),
		}
	}

	// "J. A. Smith"
	if j := leadingInitials(tokens); j > 0 && j < n {
		return reference.Author{
			Last:  strings.Join(tokens[j:], " "),
			First: normalizeInitials(strings.Join(tokens[:j], " ")),
		}
	}

	if n == 2 {
		return reference.Author{Last: tokens[0], First: tokens[1]}
	}

	// "First Middle Last", with particles pulled into the family name.
	split := n - 1
	for k := 1; k < n-1; k++ {
		if particles[strings.ToLower(tokens[k])] {
			split = k
			break
		}
	}
	return reference.Author{
		Last:  strings.Join(tokens[split:], " "),
		First: strings.Join(tokens[:split], " "),
	}
}

// trailingInitials returns the index where a trailing run of initials begins,
// or len(tokens) when the last token is not an initial.
func trailingInitials(tokens []string) int {
	j := len(tokens)
	for j > 0 && isInitialToken(tokens[j-1]) {
		j--
	}
	return j
}

func leadingInitials(tokens []string) int {
	j := 0
	for j < len(tokens) && isInitialToken(tokens[j]) {
		j++
	}
	return j
}

// normalizeInitials gives a bare single letter its period so it reads as an
// initial ("J" -> "J."); other given names are returned unchanged.
func normalizeInitials(s string) string {
	tokens := strings.Fields(s)
	for i, t := range tokens {
		r := []rune(t)
		if len(r) == 1 && unicode.IsUpper(r[0]) {
			tokens[i] = t + "."
		}
	}
	return strings.Join(tokens, " ")
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
