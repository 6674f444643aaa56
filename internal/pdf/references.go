package pdf

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	headingPattern = regexp.MustCompile(`(?im)^\s*(?:\d+\.?\s*)?(?:references|bibliography|works cited|literature cited|منابع(?:\s+و\s+مآخذ)?|فهرست\s+منابع|مراجع)\s*:?\s*$`)

	// entryMarker matches "[12] ", "12. " or "12) " at the start of a line.
	entryMarker = regexp.MustCompile(`(?m)^\s*(?:\[\d{1,3}\]|\d{1,3}[.)])\s+`)

	blankLines = regexp.MustCompile(`\n\s*\n`)
)

// SplitReferences returns the individual entries of the reference list in
// text. The list starts after the last references heading, or at the top
// when there is none. Entries are split on numeric markers when at least
// two are present, then on blank lines, then on lines that close with a
// period. Numeric markers stay on their entries.
func SplitReferences(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if locs := headingPattern.FindAllStringIndex(text, -1); locs != nil {
		text = text[locs[len(locs)-1][1]:]
	}

	var chunks []string
	switch {
	case len(entryMarker.FindAllStringIndex(text, 3)) >= 2:
		chunks = splitAtMarkers(text)
	case blankLines.MatchString(strings.TrimSpace(text)):
		chunks = blankLines.Split(text, -1)
	default:
		chunks = splitAtPeriods(text)
	}

	entries := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if c = joinLines(c); c != "" {
			entries = append(entries, c)
		}
	}
	return entries
}

func splitAtMarkers(text string) []string {
	locs := entryMarker.FindAllStringIndex(text, -1)
	chunks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chunks = append(chunks, text[loc[0]:end])
	}
	return chunks
}

// splitAtPeriods groups lines into entries, starting a new entry after a
// line that ends with a period when the next line starts with an
// upper-case or Persian letter.
func splitAtPeriods(text string) []string {
	var chunks []string
	var cur []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(cur) > 0 && strings.HasSuffix(cur[len(cur)-1], ".") && startsEntry(line) {
			chunks = append(chunks, strings.Join(cur, "\n"))
			cur = nil
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		chunks = append(chunks, strings.Join(cur, "\n"))
	}
	return chunks
}

func startsEntry(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsUpper(r) || unicode.Is(unicode.Arabic, r)
}

// joinLines folds a multi-line entry into one line, rejoining words
// hyphenated across a line break.
func joinLines(s string) string {
	var out string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case out == "":
			out = line
		case strings.HasSuffix(out, "-") && startsLower(line):
			out = strings.TrimSuffix(out, "-") + line
		default:
			out += " " + line
		}
	}
	return out
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}
