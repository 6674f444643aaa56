package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// digitFolder maps Persian and Arabic-Indic digits to ASCII and Arabic
// letter variants to their Persian forms.
var digitFolder = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"ك", "ک", "ي", "ی", "ى", "ی",
	"\u00a0", " ", "\u200f", "", "\u200e", "",
)

var spaceRun = regexp.MustCompile(`[ \t\r\n]+`)

// Normalize prepares raw citation text for extraction: NFC composition,
// ASCII digits, Persian letter forms and single spaces.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = digitFolder.Replace(s)
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
