package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/bipcite/internal/reference"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search/list commands

	ParseTitleMaxLen  = 60
	SearchTitleMaxLen = 70
	ListTitleMaxLen   = 50
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RecordSummary is a record in search and list results.
type RecordSummary struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Authors  []reference.Author `json:"authors"`
	Year     int                `json:"year,omitempty"`
	Language reference.Language `json:"language"`
}

func summarize(recs []reference.Record) []RecordSummary {
	out := make([]RecordSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, RecordSummary{ID: r.ID, Title: r.Title, Authors: r.Authors, Year: r.Year, Language: r.Language})
	}
	return out
}

// printRecordsHuman prints one line pair per record.
func printRecordsHuman(recs []reference.Record, titleLen int) {
	for _, r := range recs {
		year := "n.d."
		if r.Year > 0 {
			year = fmt.Sprint(r.Year)
		}
		fmt.Printf("%s\n   %s\n   %s (%s)\n", r.ID, truncateString(r.Title, titleLen), formatAuthorsShort(r.Authors, 3), year)
	}
}

// truncateString truncates s to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatAuthorsShort formats authors as "Last F" with "et al." past maxCount.
func formatAuthorsShort(authors []reference.Author, maxCount int) string {
	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		name := a.Last
		if first := []rune(a.First); len(first) > 0 {
			name += " " + string(first[0])
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
