// Package reference defines the core domain types for bibliographic records.
package reference

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is the style-independent representation of one source.
// Optional fields use their zero value for "absent".
type Record struct {
	// Identity, owned by the record store.
	ID string `json:"id,omitempty"`

	Title     string   `json:"title,omitempty"`
	Authors   []Author `json:"authors"`
	Year      int      `json:"year,omitempty"` // 0 if unknown
	Venue     string   `json:"venue,omitempty"`
	Volume    string   `json:"volume,omitempty"`
	Issue     string   `json:"issue,omitempty"`
	Pages     string   `json:"pages,omitempty"`
	Publisher string   `json:"publisher,omitempty"`

	// Identifiers
	DOI  string `json:"doi,omitempty"`
	ISBN string `json:"isbn,omitempty"`
	URL  string `json:"url,omitempty"`

	Language Language `json:"language"`

	// Import Tracking
	Source ImportSource `json:"source,omitempty"`
}

// ImportSource tracks where a record came from.
type ImportSource struct {
	Type string `json:"type,omitempty"` // parsed, extension, pdf, manual
	ID   string `json:"id,omitempty"`   // Original ID from source system
}

// Year bounds accepted as plausible publication years. The Persian (solar hijri)
// range lies inside the Gregorian one, so a single window validates both; years
// are stored as written and never converted between calendars.
const (
	MinGregorianYear = 1000
	MaxGregorianYear = 2100
	MinPersianYear   = 1300
	MaxPersianYear   = 1500
)

// ValidYear reports whether y is a plausible publication year in either calendar.
func ValidYear(y int) bool {
	return (y >= MinGregorianYear && y <= MaxGregorianYear) ||
		(y >= MinPersianYear && y <= MaxPersianYear)
}

// Language is the script/language a record is written in.
type Language int

const (
	English Language = iota // zero value
	Persian
)

var languageNames = [...]string{
	English: "en",
	Persian: "fa",
}

// String returns the ISO 639-1 code of the language.
func (l Language) String() string {
	if int(l) >= 0 && int(l) < len(languageNames) {
		return languageNames[l]
	}
	return fmt.Sprintf("Language(%d)", int(l))
}

// Locale returns the locale tag used when rendering in this language.
func (l Language) Locale() string {
	if l == Persian {
		return "fa-IR"
	}
	return "en-US"
}

// MarshalJSON encodes the language as its code (e.g. "fa").
func (l Language) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes "fa"/"en" (or the long names) into a Language.
func (l *Language) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	lang, err := ParseLanguage(s)
	if err != nil {
		return err
	}
	*l = lang
	return nil
}

// ParseLanguage maps a code, locale or long name to a Language. The empty
// string is English.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fa", "persian", "fa-ir":
		return Persian, nil
	case "", "en", "english", "en-us":
		return English, nil
	default:
		return English, fmt.Errorf("unknown language: %q", s)
	}
}

// Style is a citation style family.
type Style int

const (
	Unknown Style = iota // zero value, nothing detected
	APA
	MLA
	Harvard
	Vancouver
	Chicago
)

var styleNames = [...]string{
	Unknown:   "Unknown",
	APA:       "APA",
	MLA:       "MLA",
	Harvard:   "Harvard",
	Vancouver: "Vancouver",
	Chicago:   "Chicago",
}

// Styles lists the concrete styles, without Unknown.
var Styles = []Style{APA, MLA, Harvard, Vancouver, Chicago}

// String returns the display name of the style.
func (s Style) String() string {
	if int(s) >= 0 && int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// MarshalJSON encodes the style as its display name.
func (s Style) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a display name (case-insensitive) into a Style.
func (s *Style) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range styleNames {
		if strings.EqualFold(n, name) {
			*s = Style(i)
			return nil
		}
	}
	return fmt.Errorf("unknown style: %q", name)
}
