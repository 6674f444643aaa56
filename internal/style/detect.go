// Package style recognises citation styles from raw text and maps style
// names to the identifiers understood by the formatter.
package style

import (
	"regexp"

	"github.com/matsen/bipcite/internal/reference"
)

// Signature is one structural cue of a style. Each match of Pattern adds
// Weight to the score of Style; a signature counts at most once per text.
type Signature struct {
	Name    string
	Style   reference.Style
	Weight  int
	Pattern *regexp.Regexp
}

// Signatures is the fixed battery applied by Detect.
var Signatures = []Signature{
	// APA: "(2024)." directly after the author block.
	{"apa-year-parens-period", reference.APA, 3, regexp.MustCompile(`^[^()]{2,200}?\(\d{4}[a-z]?\)\.`)},
	{"apa-initials-ampersand", reference.APA, 1, regexp.MustCompile(`\p{Lu}\.,?\s*&\s*\p{Lu}`)},
	{"apa-volume-issue-comma", reference.APA, 1, regexp.MustCompile(`\d+\s*\(\d+\),\s*\d+\s*[-–]\s*\d+`)},

	// Harvard: "(2024) Title" without a period, or an unparenthesised ", 2024".
	{"harvard-year-parens-no-period", reference.Harvard, 3, regexp.MustCompile(`\(\d{4}[a-z]?\)\s+[\p{L}'‘"“]`)},
	{"harvard-comma-year", reference.Harvard, 2, regexp.MustCompile(`[\p{L}.][,،]\s*\d{4}[a-z]?[.,]`)},
	{"harvard-available-at", reference.Harvard, 2, regexp.MustCompile(`(?i)available at:`)},

	// Vancouver: leading "[n]" or "n.", and "2020;12(3):45-67".
	{"vancouver-bracket-number", reference.Vancouver, 3, regexp.MustCompile(`^\s*\[\d+\]`)},
	{"vancouver-leading-number", reference.Vancouver, 3, regexp.MustCompile(`^\s*\d{1,3}\.\s+\D`)},
	{"vancouver-year-semicolon", reference.Vancouver, 3, regexp.MustCompile(`\d{4}\s*[;؛]\s*\d+`)},
	{"vancouver-volume-issue-colon", reference.Vancouver, 2, regexp.MustCompile(`\d+\s*\(\d+\)\s*:\s*\d+`)},

	// Chicago: quoted title, "15, no. 3", "(2024): 123".
	{"chicago-quoted-title", reference.Chicago, 2, regexp.MustCompile(`["“][^"”]{5,}[.,]?["”]`)},
	{"chicago-volume-no", reference.Chicago, 3, regexp.MustCompile(`\d+,\s*no\.\s*\d+`)},
	{"chicago-year-colon-pages", reference.Chicago, 2, regexp.MustCompile(`\(\d{4}\):\s*\d+`)},

	// MLA: quoted title, "vol. 15, no. 3", "pp. 12-34".
	{"mla-quoted-title", reference.MLA, 2, regexp.MustCompile(`["“][^"”]{5,}[.,]?["”]`)},
	{"mla-vol-no", reference.MLA, 3, regexp.MustCompile(`(?i)vol\.\s*\d+,\s*no\.\s*\d+`)},
	{"mla-pp", reference.MLA, 2, regexp.MustCompile(`pp\.\s*\d+`)},
}

// priority breaks ties between equal scores, highest first.
var priority = []reference.Style{
	reference.APA,
	reference.Harvard,
	reference.Vancouver,
	reference.Chicago,
	reference.MLA,
}

// Scores returns the accumulated signature weight of every style.
func Scores(text string) map[reference.Style]int {
	scores := make(map[reference.Style]int, len(priority))
	for _, sig := range Signatures {
		if sig.Pattern.MatchString(text) {
			scores[sig.Style] += sig.Weight
		}
	}
	return scores
}

// Detect returns the best-scoring style of text, or Unknown when no
// signature matches. Equal scores resolve by the fixed priority order.
func Detect(text string) reference.Style {
	scores := Scores(text)
	best, bestScore := reference.Unknown, 0
	for _, s := range priority {
		if scores[s] > bestScore {
			best, bestScore = s, scores[s]
		}
	}
	return best
}
