package reference

import "unicode/utf8"

// IsPersianRune reports whether r falls in the Arabic-script blocks used by
// Persian text (base block plus presentation forms A and B).
func IsPersianRune(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) ||
		(r >= 0xFB50 && r <= 0xFDFF) ||
		(r >= 0xFE70 && r <= 0xFEFF)
}

// ContainsPersian reports whether s contains any Persian-script character.
func ContainsPersian(s string) bool {
	for _, r := range s {
		if IsPersianRune(r) {
			return true
		}
	}
	return false
}

// DetectLanguage classifies text as Persian if any Persian-script character
// is present, English otherwise.
func DetectLanguage(s string) Language {
	if ContainsPersian(s) {
		return Persian
	}
	return English
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
