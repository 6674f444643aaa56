package author

import (
	"math"
	"regexp"
	"strings"

	"github.com/matsen/bipcite/internal/reference"
)

// persianAuthorSep separates whole authors: semicolons, ampersands and the
// conjunction "و" standing alone.
var persianAuthorSep = regexp.MustCompile(`\s*[;؛&]\s*|\s+و\s+`)

// givenPrefixes are religious and honorific name parts that open a given name.
var givenPrefixes = map[string]bool{
	"سید": true, "سیده": true, "میر": true, "محمد": true, "عبد": true, "عبدال": true,
	"ابو": true, "امیر": true, "حاج": true, "حاجی": true, "شیخ": true, "آقا": true,
	"ملا": true, "بی‌بی": true,
}

// familySuffixes are occupational, geographic and patronymic morphemes that
// close a family name, either attached or as a separate token.
var familySuffixes = []string{
	"زاده", "پور", "نیا", "نژاد", "خواه", "فر", "راد", "کیا", "دوست", "آبادی",
	"وند", "مند", "لو", "یان", "زاد", "پناه", "منش", "فرد", "کار", "ساز",
}

var familySuffixTokens = func() map[string]bool {
	m := make(map[string]bool, len(familySuffixes))
	for _, s := range familySuffixes {
		m[s] = true
	}
	return m
}()

// Split score weights.
const (
	positionWeight = 1.0
	prefixWeight   = 2.0
	suffixWeight   = 2.0
	weakSuffix     = 1.0 // the adjectival "ی" ending
	lengthWeight   = 0.5
	balanceWeight  = 1.0

	shortToken = 3 // runes; at or below biases toward a given name
	longToken  = 5 // runes; at or above biases toward a family name
)

func segmentPersian(raw string) []reference.Author {
	var out []reference.Author
	for _, chunk := range persianAuthorSep.Split(raw, -1) {
		parts := splitParts(chunk)
		switch {
		case len(parts) == 0:
		case len(parts) == 1:
			out = append(out, splitPersianName(parts[0]))
		case len(parts)%2 == 0 && pairable(parts):
			// "Last، First، Last، First"
			for i := 0; i+1 < len(parts); i += 2 {
				out = append(out, reference.Author{Last: parts[i], First: parts[i+1]})
			}
		default:
			for _, p := range parts {
				out = append(out, splitPersianName(p))
			}
		}
	}
	return out
}

// pairable reports whether every part is short enough to be one half of a name.
func pairable(parts []string) bool {
	for _, p := range parts {
		if len(strings.Fields(p)) > 3 {
			return false
		}
	}
	return true
}

// splitPersianName splits a comma-free name. Two tokens are always
// family-then-given; longer names take the best-scoring split point.
func splitPersianName(name string) reference.Author {
	var tokens []string
	for _, t := range strings.Fields(name) {
		if t = strings.TrimRight(strings.Trim(t, nameTrim), "."); t != "" {
			tokens = append(tokens, t)
		}
	}
	switch len(tokens) {
	case 0:
		return reference.Author{}
	case 1:
		return reference.Author{Last: tokens[0]}
	case 2:
		return reference.Author{Last: tokens[0], First: tokens[1]}
	}

	best, bestScore := 1, math.Inf(-1)
	for k := 1; k < len(tokens); k++ {
		if s := splitScore(tokens, k); s > bestScore {
			best, bestScore = k, s
		}
	}
	return reference.Author{
		Last:  strings.Join(tokens[:best], " "),
		First: strings.Join(tokens[best:], " "),
	}
}

// splitScore rates putting tokens[:k] in the family name and tokens[k:] in the
// given name. Higher is better.
func splitScore(tokens []string, k int) float64 {
	n := len(tokens)
	family, given := tokens[:k], tokens[k:]
	lastFamily, firstGiven := family[len(family)-1], given[0]

	score := 0.0

	// Family names lead, given names trail.
	if len(given) == 1 {
		score += positionWeight
	}
	if len(family) == 1 {
		score += positionWeight / 2
	}

	// A prefix opens the given name and never ends the family name.
	if givenPrefixes[firstGiven] {
		score += prefixWeight
	}
	if givenPrefixes[lastFamily] {
		score -= prefixWeight + 1
	}

	// A suffix closes the family name and never opens the given name.
	score += suffixScore(lastFamily)
	if familySuffixTokens[firstGiven] {
		score -= suffixWeight + 1
	}

	if reference.RuneLen(firstGiven) <= shortToken {
		score += lengthWeight
	}
	if reference.RuneLen(lastFamily) >= longToken {
		score += lengthWeight
	}

	// Prefer splits near the middle.
	score += balanceWeight * (1 - math.Abs(float64(k)-float64(n-k))/float64(n))
	return score
}

func suffixScore(token string) float64 {
	if familySuffixTokens[token] {
		return suffixWeight
	}
	for _, s := range familySuffixes {
		if strings.HasSuffix(token, s) && reference.RuneLen(token) > reference.RuneLen(s)+1 {
			return suffixWeight
		}
	}
	if strings.HasSuffix(token, "ی") && reference.RuneLen(token) > 2 {
		return weakSuffix
	}
	return 0
}
