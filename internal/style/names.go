package style

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/matsen/bipcite/internal/reference"
)

// Formatter style identifiers.
const (
	IDAPA       = "apa"
	IDMLA       = "modern-language-association"
	IDHarvard   = "harvard-cite-them-right"
	IDVancouver = "vancouver"
	IDChicago   = "chicago-author-date"
)

// aliases maps lower-cased user-facing names to formatter identifiers.
var aliases = map[string]string{
	"apa":                         IDAPA,
	"apa7":                        IDAPA,
	"apa-7":                       IDAPA,
	"mla":                         IDMLA,
	"mla9":                        IDMLA,
	"modern-language-association": IDMLA,
	"harvard":                     IDHarvard,
	"harvard-cite-them-right":     IDHarvard,
	"vancouver":                   IDVancouver,
	"numeric":                     IDVancouver,
	"chicago":                     IDChicago,
	"chicago-author-date":         IDChicago,
}

var idStyles = map[string]reference.Style{
	IDAPA:       reference.APA,
	IDMLA:       reference.MLA,
	IDHarvard:   reference.Harvard,
	IDVancouver: reference.Vancouver,
	IDChicago:   reference.Chicago,
}

// Lookup maps a style name (case-insensitive) to its style and formatter
// identifier. Unrecognised names resolve to APA with ok=false so the caller
// can report the substitution.
func Lookup(name string) (s reference.Style, id string, ok bool) {
	id, ok = aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return reference.APA, IDAPA, false
	}
	return idStyles[id], id, true
}

// ID returns the formatter identifier of s. Unknown maps to APA.
func ID(s reference.Style) string {
	switch s {
	case reference.MLA:
		return IDMLA
	case reference.Harvard:
		return IDHarvard
	case reference.Vancouver:
		return IDVancouver
	case reference.Chicago:
		return IDChicago
	default:
		return IDAPA
	}
}

// Hint values accepted by ResolveLanguage besides BCP 47 tags.
const HintAuto = "auto"

// ResolveLanguage maps a language hint ("fa-IR", "en-US", "auto", ...) to a
// language. "auto", an empty hint or an unparsable tag picks whichever
// language covers a strict majority of records, English otherwise.
func ResolveLanguage(hint string, records []reference.Record) reference.Language {
	hint = strings.TrimSpace(hint)
	if hint != "" && !strings.EqualFold(hint, HintAuto) {
		if strings.EqualFold(hint, "persian") {
			return reference.Persian
		}
		if tag, err := language.Parse(hint); err == nil {
			base, _ := tag.Base()
			if base.String() == "fa" {
				return reference.Persian
			}
			return reference.English
		}
	}
	return MajorityLanguage(records)
}

// MajorityLanguage returns Persian when more than half the records are
// Persian, English otherwise.
func MajorityLanguage(records []reference.Record) reference.Language {
	persian := 0
	for _, r := range records {
		if r.Language == reference.Persian {
			persian++
		}
	}
	if persian*2 > len(records) {
		return reference.Persian
	}
	return reference.English
}
