package csl

import (
	"strings"
	"unicode"
)

// Initials abbreviates a given name: "John Ronald" -> "J. R.", "JA" -> "J. A.".
func Initials(given string) string {
	return strings.Join(initialList(given), " ")
}

// compactInitials abbreviates without periods or spaces: "John Ronald" -> "JR".
func compactInitials(given string) string {
	var w strings.Builder
	for _, in := range initialList(given) {
		w.WriteString(strings.TrimSuffix(in, "."))
	}
	return w.String()
}

func initialList(given string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(given, func(r rune) bool { return unicode.IsSpace(r) || r == '.' || r == '-' }) {
		rs := []rune(f)
		if len(rs) <= 3 && allUpper(rs) {
			for _, r := range rs {
				out = append(out, string(r)+".")
			}
			continue
		}
		out = append(out, string(rs[0])+".")
	}
	return out
}

func allUpper(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func (n Name) full() string {
	if n.Given == "" {
		return n.Family
	}
	return n.Given + " " + n.Family
}

func (n Name) inverted() string {
	if n.Given == "" {
		return n.Family
	}
	return n.Family + ", " + n.Given
}

// NamesLastFirstInitialCommaAmpersand formats names as
// "Last, F., Last, F., & Last, F.".
func NamesLastFirstInitialCommaAmpersand(nms []Name) string {
	return joinNames(nms, ", ", ", & ", ", & ", func(_ int, n Name) string {
		if in := Initials(n.Given); in != "" {
			return n.Family + ", " + in
		}
		return n.Family
	})
}

// NamesLastFirstInitialAnd formats names as "Last, F., Last, F. and Last, F.".
func NamesLastFirstInitialAnd(nms []Name) string {
	return joinNames(nms, ", ", " and ", " and ", func(_ int, n Name) string {
		if in := Initials(n.Given); in != "" {
			return n.Family + ", " + in
		}
		return n.Family
	})
}

// NamesFirstInvertedAnd inverts only the first name:
// "Last, First, First Last, and First Last".
func NamesFirstInvertedAnd(nms []Name) string {
	return joinNames(nms, ", ", ", and ", ", and ", func(i int, n Name) string {
		if i == 0 {
			return n.inverted()
		}
		return n.full()
	})
}

// NamesMLA formats names as MLA does: one or two names in full, three or
// more as the first name followed by "et al.".
func NamesMLA(nms []Name) string {
	if len(nms) >= 3 {
		return nms[0].inverted() + ", et al."
	}
	return NamesFirstInvertedAnd(nms)
}

// maxVancouverNames is the number of authors listed before "et al.".
const maxVancouverNames = 6

// NamesVancouver formats names as "Last AB, Last C", truncating after six.
func NamesVancouver(nms []Name) string {
	n := nms
	if len(n) > maxVancouverNames {
		n = n[:maxVancouverNames]
	}
	s := joinNames(n, ", ", ", ", ", ", func(_ int, n Name) string {
		if in := compactInitials(n.Given); in != "" {
			return n.Family + " " + in
		}
		return n.Family
	})
	if len(nms) > maxVancouverNames {
		s += ", et al."
	}
	return s
}

// NamesCiteEtAl formats names for an in-text citation: "Last", "Last conj
// Last" for exactly two, "Last et al." for three or more.
func NamesCiteEtAl(nms []Name, conj string) string {
	switch len(nms) {
	case 0:
		return ""
	case 1:
		return nms[0].Family
	case 2:
		return nms[0].Family + " " + conj + " " + nms[1].Family
	default:
		return nms[0].Family + " et al."
	}
}

// joinNames joins formatted names with sep, using last before the final
// name and pair when there are exactly two.
func joinNames(nms []Name, sep, last, pair string, format func(int, Name) string) string {
	var w strings.Builder
	n := len(nms)
	for i, nm := range nms {
		switch {
		case i == 0:
		case n == 2:
			w.WriteString(pair)
		case i == n-1:
			w.WriteString(last)
		default:
			w.WriteString(sep)
		}
		w.WriteString(format(i, nm))
	}
	return w.String()
}
