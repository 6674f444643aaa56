package csl

import (
	"strconv"
	"strings"
)

// volumeIssue renders "15(3)", "15" or "(3)".
func volumeIssue(it *Item) string {
	s := it.Volume
	if it.Issue != "" {
		s += "(" + it.Issue + ")"
	}
	return s
}

func citeHarvard(items []Item, t terms) string {
	parts := make([]string, len(items))
	for i := range items {
		parts[i] = citeLead(&items[i], "and") + t.yearSep + items[i].Year()
	}
	return "(" + strings.Join(parts, t.itemSep) + ")"
}

func refHarvard(_ int, it *Item, _ terms) string {
	var e entry
	e.add(NamesLastFirstInitialAnd(it.Author))
	e.add("(" + it.Year() + ")")
	e.add(EnsurePeriod(it.Title))
	switch it.Type {
	case TypeBook:
		e.add(EnsurePeriod(it.Publisher))
	default:
		pages := ""
		if it.Page != "" {
			pages = "pp. " + it.Page
		}
		e.add(EnsurePeriod(joinNonEmpty(", ", it.ContainerTitle, volumeIssue(it), pages)))
	}
	if l := link(it); l != "" {
		e.add("Available at: " + l + ".")
	}
	return e.String()
}

func citeMLA(items []Item, t terms) string {
	parts := make([]string, len(items))
	for i := range items {
		parts[i] = citeLead(&items[i], "and")
	}
	return "(" + strings.Join(parts, t.itemSep) + ")"
}

func refMLA(_ int, it *Item, t terms) string {
	var e entry
	e.add(EnsurePeriod(NamesMLA(it.Author)))
	if it.Title != "" {
		e.add(t.openQuote + EnsurePeriod(it.Title) + t.closeQuote)
	}
	var src []string
	src = append(src, it.ContainerTitle)
	if it.Volume != "" {
		src = append(src, "vol. "+it.Volume)
	}
	if it.Issue != "" {
		src = append(src, "no. "+it.Issue)
	}
	if it.Type == TypeBook {
		src = append(src, it.Publisher)
	}
	src = append(src, it.Issued)
	if it.Page != "" {
		src = append(src, "pp. "+it.Page)
	}
	e.add(EnsurePeriod(joinNonEmpty(", ", src...)))
	e.add(link(it))
	return e.String()
}

func citeChicago(items []Item, t terms) string {
	parts := make([]string, len(items))
	for i := range items {
		parts[i] = citeLead(&items[i], "and") + " " + items[i].Year()
	}
	return "(" + strings.Join(parts, t.itemSep) + ")"
}

func refChicago(_ int, it *Item, t terms) string {
	var e entry
	e.add(EnsurePeriod(NamesFirstInvertedAnd(it.Author)))
	e.add(it.Year() + ".")
	if it.Title != "" {
		e.add(t.openQuote + EnsurePeriod(it.Title) + t.closeQuote)
	}
	switch it.Type {
	case TypeBook:
		e.add(EnsurePeriod(it.Publisher))
	default:
		src := it.ContainerTitle
		if it.Volume != "" {
			src = joinNonEmpty(" ", src, it.Volume)
		}
		if it.Issue != "" {
			src = joinNonEmpty(" ", src, "("+it.Issue+")")
		}
		if it.Page != "" {
			if src != "" {
				src += ":"
			}
			src = joinNonEmpty(" ", src, it.Page)
		}
		e.add(EnsurePeriod(src))
	}
	e.add(EnsurePeriod(link(it)))
	return e.String()
}

func citeVancouver(items []Item, _ terms) string {
	nums := make([]string, len(items))
	for i := range items {
		nums[i] = strconv.Itoa(i + 1)
	}
	return "[" + strings.Join(nums, ",") + "]"
}

func refVancouver(n int, it *Item, _ terms) string {
	var e entry
	e.add(strconv.Itoa(n) + ".")
	e.add(EnsurePeriod(NamesVancouver(it.Author)))
	e.add(EnsurePeriod(it.Title))
	switch it.Type {
	case TypeBook:
		e.add(EnsurePeriod(joinNonEmpty("; ", it.Publisher, it.Issued)))
	default:
		e.add(EnsurePeriod(it.ContainerTitle))
		loc := it.Issued
		if vi := volumeIssue(it); vi != "" {
			loc = joinNonEmpty(";", loc, vi)
		}
		if it.Page != "" {
			loc = joinNonEmpty(":", loc, it.Page)
		}
		e.add(EnsurePeriod(loc))
	}
	if l := link(it); l != "" {
		e.add("Available from: " + l)
	}
	return e.String()
}
