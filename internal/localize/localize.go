// Package localize maps English citation connectors to their Persian
// equivalents.
package localize

import "regexp"

type rule struct {
	pattern *regexp.Regexp
	repl    string
}

// rules apply in order. The collapsing passes run first so that ", et al."
// and "&" never leave stray punctuation around the Persian connector.
var rules = []rule{
	{regexp.MustCompile(`\s*,?\s*\bet\s+al\b\.?`), " و همکاران"},
	{regexp.MustCompile(`\s*&\s*`), " و "},
	{regexp.MustCompile(`\bn\.\s?d\.`), "بی‌تا"},
	{regexp.MustCompile(`\band\b`), "و"},
	{regexp.MustCompile(`\bpp\.`), "صص."},
	{regexp.MustCompile(`\bp\.`), "ص."},
	{regexp.MustCompile(`(?i)\bvol\.`), "جلد"},
	{regexp.MustCompile(`\bno\.`), "شماره"},
}

// Localize replaces English connector tokens in text with Persian ones.
// Only whole tokens are replaced; "band" or "Reno." are left alone.
func Localize(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.repl)
	}
	return text
}
