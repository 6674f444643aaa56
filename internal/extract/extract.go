// Package extract pulls bibliographic fields out of free-form citation text
// using positional and pattern heuristics.
//
// Every field is extracted independently and fails soft: a field that cannot
// be located is left at its zero value and never aborts the others.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matsen/bipcite/internal/author"
	"github.com/matsen/bipcite/internal/reference"
)

// MaxVenueLen is the longest venue accepted; longer matches are treated as
// extraction failures.
const MaxVenueLen = 200

// MinTitleLen is the shortest first title candidate accepted before the next
// segment is tried.
const MinTitleLen = 10

var (
	// leadingNumber is the "[1]", "1." or "1)" prefix of numbered reference lists.
	leadingNumber = regexp.MustCompile(`^\s*(?:\[\d+\]|\d{1,3}[.)])\s+`)

	// periodParen ends an author block followed by a parenthesised year.
	periodParen = regexp.MustCompile(`\.\s*\(`)

	// commaYear ends an author block followed by ", 2020".
	commaYear = regexp.MustCompile(`[,،]\s*\(?(\d{4})[a-z]?\)?[.,;؛:)]`)

	yearParens = regexp.MustCompile(`\((\d{4})[a-z]?\)`)
	yearPunct  = regexp.MustCompile(`\b(\d{4})[a-z]?(?:[.,;؛:)]|$)`)

	sourceLabels = regexp.MustCompile(`(?i)\b(?:available\s+(?:at|from|online)|retrieved\s+from)\s*:?`)
)

// Extract builds a record from raw citation text. The author segment is
// handed to the author segmenter in the conventions of lang; st selects
// style-specific cues where the generic heuristics are ambiguous.
func Extract(raw string, st reference.Style, lang reference.Language) reference.Record {
	text := Normalize(raw)
	rec := reference.Record{Language: lang, Authors: []reference.Author{}}
	if text == "" {
		return rec
	}

	ids := Identifiers(text)
	rec.DOI, rec.ISBN, rec.URL = ids.DOI, ids.ISBN, ids.URL

	body := leadingNumber.ReplaceAllString(maskIdentifiers(text), "")

	authorEnd := authorSegmentEnd(body)
	if authorEnd > 0 {
		rec.Authors = author.Segment(body[:authorEnd], lang)
	}

	year, yearLoc := findYear(body)
	rec.Year = year

	title, titleEnd := findTitle(body, authorEnd, yearLoc)
	rec.Title = title

	tail := ""
	if titleEnd < len(body) {
		tail = body[titleEnd:]
	}

	vi, found := findVolumeIssue(tail, st, year)
	rec.Volume, rec.Issue = vi.volume, vi.issue
	pagesFrom := 0
	if found {
		rec.Venue = cleanVenue(tail[:vi.start], title)
		pagesFrom = vi.end
	}
	rec.Pages = findPages(tail[pagesFrom:])
	if rec.Pages == "" && pagesFrom > 0 {
		rec.Pages = findPages(tail)
	}
	if !found {
		rec.Publisher = findPublisher(tail, rec.ISBN != "")
	}
	return rec
}

// maskIdentifiers removes identifier spans and their labels so they do not
// confuse the positional heuristics.
func maskIdentifiers(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")
	text = doiPattern.ReplaceAllString(text, " ")
	text = isbnPattern.ReplaceAllString(text, " ")
	text = sourceLabels.ReplaceAllString(text, " ")
	text = spaceRun.ReplaceAllString(text, " ")
	return strings.TrimRight(strings.TrimSpace(text), " .,;:")
}

// authorSegmentEnd returns the byte offset where the author block ends: the
// earliest of a period before "(", a parenthesised year, a comma before a
// year, or the first sentence end. Returns 0 when no boundary is found.
func authorSegmentEnd(body string) int {
	end := -1
	consider := func(i int) {
		if i > 0 && (end < 0 || i < end) {
			end = i
		}
	}
	if m := periodParen.FindStringIndex(body); m != nil {
		consider(m[0] + 1)
	}
	for _, m := range yearParens.FindAllStringSubmatchIndex(body, -1) {
		if reference.ValidYear(atoi(body[m[2]:m[3]])) {
			consider(m[0])
			break
		}
	}
	for _, m := range commaYear.FindAllStringSubmatchIndex(body, -1) {
		if reference.ValidYear(atoi(body[m[2]:m[3]])) {
			consider(m[0])
			break
		}
	}
	if i := sentenceEnd(body, 0); i >= 0 {
		consider(i + 1)
	}
	if end < 0 {
		return 0
	}
	return end
}

// findYear returns the year and its span. A parenthesised year wins over a
// bare one; within a pattern the earliest plausible match wins.
func findYear(body string) (int, []int) {
	for _, re := range []*regexp.Regexp{yearParens, yearPunct} {
		for _, m := range re.FindAllStringSubmatchIndex(body, -1) {
			if m[0] > 0 {
				if r, _ := utf8.DecodeLastRuneInString(body[:m[0]]); r == '-' || r == '–' || r == ':' || unicode.IsDigit(r) {
					continue
				}
			}
			if y := atoi(body[m[2]:m[3]]); reference.ValidYear(y) {
				return y, []int{m[0], m[1]}
			}
		}
	}
	return 0, nil
}

// findTitle returns the title and the offset just past its segment. The
// title is the segment after the year when the year directly follows the
// authors (author-date styles), the segment after the authors otherwise.
func findTitle(body string, authorEnd int, yearLoc []int) (string, int) {
	start := skipPunct(body, authorEnd)
	if yearLoc != nil && yearLoc[0] >= authorEnd && onlyPunct(body[authorEnd:yearLoc[0]]) {
		start = skipPunct(body, yearLoc[1])
	}
	if start >= len(body) {
		return "", len(body)
	}

	title, end := titleSegment(body, start)
	if runeLen(title) < MinTitleLen && end < len(body) {
		if next, nextEnd := titleSegment(body, skipPunct(body, end)); runeLen(next) > runeLen(title) {
			title, end = next, nextEnd
		}
	}
	return title, end
}

// titleSegment reads one segment starting at start: a quoted span when the
// segment opens with a quote, otherwise the text up to the sentence end.
func titleSegment(body string, start int) (string, int) {
	if start >= len(body) {
		return "", len(body)
	}
	r, size := utf8.DecodeRuneInString(body[start:])
	if closer, ok := quotePairs[r]; ok {
		if i := strings.IndexRune(body[start+size:], closer); i >= 0 {
			end := start + size + i
			return cleanTitle(body[start+size : end]), end + utf8.RuneLen(closer)
		}
	}
	end := sentenceEnd(body, start)
	if end < 0 {
		end = len(body)
	}
	next := end
	if next < len(body) {
		next++
	}
	return cleanTitle(body[start:end]), next
}

var quotePairs = map[rune]rune{'"': '"', '“': '”', '«': '»', '‘': '’'}

func cleanTitle(s string) string {
	s = strings.Trim(s, ` "“”'‘’«»`)
	s = strings.TrimRight(s, ".,;: ")
	return strings.TrimSpace(s)
}

// abbreviations never end a sentence.
var abbreviations = map[string]bool{
	"vol": true, "no": true, "pp": true, "p": true, "ed": true, "eds": true,
	"al": true, "dr": true, "st": true, "jr": true, "nr": true, "ch": true,
}

// sentenceEnd returns the byte offset of the next sentence-terminating
// period at or after from, or -1. Periods after initials that continue a
// name list, after abbreviations and between digits are skipped.
func sentenceEnd(s string, from int) int {
	for i := from; i < len(s); i++ {
		c := s[i]
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if c == '.' {
			word := precedingWord(s[:i])
			if abbreviations[strings.ToLower(word)] {
				continue
			}
			if i+1 < len(s) && i > 0 && isASCIIDigit(s[i-1]) && isASCIIDigit(s[i+1]) {
				continue
			}
			if utf8.RuneCountInString(word) == 1 && continuesNameList(s[i+1:]) {
				continue
			}
		}
		return i
	}
	return -1
}

var nameListContinuation = regexp.MustCompile(`^\s*(?:\p{Lu}\.|-\p{Lu}\.|,|&|and\s|\(\d{4})`)

// continuesNameList reports whether the text after an initial's period is
// still part of an author list.
func continuesNameList(rest string) bool {
	return nameListContinuation.MatchString(rest)
}

func precedingWord(s string) string {
	i := strings.LastIndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	return s[i+1:]
}

// volumeIssue is a located volume/issue token.
type volumeIssue struct {
	volume, issue string
	start, end    int
}

var (
	mlaVolNo     = regexp.MustCompile(`(?i)\bvol\.\s*(\d+)\s*[,،]\s*no\.\s*(\d+)`)
	chicagoVolNo = regexp.MustCompile(`(\d+)\s*[,،]\s*no\.\s*(\d+)`)
	persianVolNo = regexp.MustCompile(`جلد\s*(\d+)\s*[,،]?\s*شماره\s*(\d+)`)
	volParenNo   = regexp.MustCompile(`(\d+)\s*\((\d+(?:\s*[-–/]\s*\d+)?)\)`)
	volColon     = regexp.MustCompile(`[;؛]\s*(\d+)\s*:`)
	volOnly      = regexp.MustCompile(`(?i)\bvol\.\s*(\d+)`)
)

// findVolumeIssue locates the first volume/issue token in tail.
func findVolumeIssue(tail string, st reference.Style, year int) (volumeIssue, bool) {
	patterns := []*regexp.Regexp{mlaVolNo, persianVolNo, chicagoVolNo, volParenNo}
	if st == reference.MLA {
		patterns = []*regexp.Regexp{mlaVolNo, chicagoVolNo, persianVolNo, volParenNo}
	}
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatchIndex(tail, -1) {
			issue := despace(tail[m[4]:m[5]])
			if year != 0 && atoi(issue) == year {
				continue // "(2024)" is a year, not an issue
			}
			return volumeIssue{volume: tail[m[2]:m[3]], issue: issue, start: m[0], end: m[1]}, true
		}
	}
	for _, re := range []*regexp.Regexp{volColon, volOnly} {
		if m := re.FindStringSubmatchIndex(tail); m != nil {
			return volumeIssue{volume: tail[m[2]:m[3]], start: m[0], end: m[1]}, true
		}
	}
	return volumeIssue{}, false
}

var trailingYear = regexp.MustCompile(`[\s.,;؛:]*\(?\d{4}[a-z]?\)?[\s.,;؛:]*$`)

// cleanVenue trims the text preceding a volume token down to the venue name.
func cleanVenue(s, title string) string {
	s = strings.Trim(s, " .,;:،؛")
	s = trailingYear.ReplaceAllString(s, "")
	s = strings.TrimSuffix(strings.TrimSpace(s), "vol.")
	s = strings.Trim(s, ` .,;:،؛"“”`)
	if s == "" || s == title || isDigits(s) || runeLen(s) > MaxVenueLen {
		return ""
	}
	return s
}

var (
	ppPages      = regexp.MustCompile(`(?i)\bpp?\.\s*(\d+(?:\s*[-–]\s*\d+)?)`)
	persianPages = regexp.MustCompile(`صص?\.?\s*(\d+(?:\s*[-–]\s*\d+)?)`)
	rangePages   = regexp.MustCompile(`(\d+)\s*[-–]\s*(\d+)`)
)

// findPages returns the first page range in s, normalised to "a-b".
func findPages(s string) string {
	for _, re := range []*regexp.Regexp{ppPages, persianPages} {
		if m := re.FindStringSubmatch(s); m != nil {
			return normalizePages(m[1])
		}
	}
	for _, m := range rangePages.FindAllStringSubmatch(s, -1) {
		if len(m[1]) == 4 && len(m[2]) == 4 && reference.ValidYear(atoi(m[1])) && reference.ValidYear(atoi(m[2])) {
			continue // year span
		}
		return m[1] + "-" + m[2]
	}
	return ""
}

func normalizePages(s string) string {
	return strings.ReplaceAll(despace(s), "–", "-")
}

var cityPublisher = regexp.MustCompile(`(\p{L}[\p{L} .'-]*?)\s*:\s*(\p{L}[^.:;,،]*)`)

// findPublisher extracts "City: Publisher" from the text after the title.
// For book-like records (bookish) without that pattern, the first
// digit-free segment is taken instead.
func findPublisher(tail string, bookish bool) string {
	if m := cityPublisher.FindStringSubmatch(tail); m != nil {
		return strings.TrimSpace(m[2])
	}
	if !bookish {
		return ""
	}
	for _, seg := range strings.Split(tail, ".") {
		seg = strings.Trim(seg, " ,;:")
		if seg != "" && !strings.ContainsAny(seg, "0123456789") && runeLen(seg) <= MaxVenueLen {
			return seg
		}
	}
	return ""
}

func skipPunct(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) && !strings.ContainsRune(".,;:،؛", r) {
			break
		}
		i += size
	}
	return i
}

func onlyPunct(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

func despace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// atoi parses a run of ASCII digits, returning 0 for anything else.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isASCIIDigit(s[i]) {
			return 0
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}
