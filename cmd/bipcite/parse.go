package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bipcite/internal/clipboard"
	"github.com/matsen/bipcite/internal/config"
	"github.com/matsen/bipcite/internal/parser"
	"github.com/matsen/bipcite/internal/pdf"
	"github.com/matsen/bipcite/internal/reference"
)

var (
	parseStdin     bool
	parseClipboard bool
	parsePDF       string
	parseSave      bool
)

func init() {
	parseCmd.Flags().BoolVar(&parseStdin, "stdin", false, "Read a reference list from stdin")
	parseCmd.Flags().BoolVar(&parseClipboard, "clipboard", false, "Read a reference list from the clipboard")
	parseCmd.Flags().StringVar(&parsePDF, "pdf", "", "Read the reference list of a PDF")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Store parsed records in the repository")
	parseCmd.MarkFlagsMutuallyExclusive("stdin", "clipboard", "pdf")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse [citation]",
	Short: "Parse free-text citations into structured records",
	Long: `Parse free-text citations into structured records.

The citation style and language are detected per citation. With --stdin,
--clipboard or --pdf the input is split into individual references first.

Examples:
  bipcite parse "Smith, J. (2020). A title. Journal, 5(2), 1-10."
  bipcite parse --stdin < references.txt
  bipcite parse --pdf paper.pdf --save`,
	RunE: runParse,
}

// ParseResponse is the response for the parse command.
type ParseResponse struct {
	Results []parser.Result `json:"results"`
	Saved   []SaveAction    `json:"saved,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	texts, err := parseInput(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if len(texts) == 0 {
		exitWithError(ExitDataError, "no citations found in input")
	}

	p := parser.New(log)
	results, err := p.ParseAll(context.Background(), texts)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	resp := ParseResponse{Results: results}
	if parseSave {
		repoRoot := mustFindRepository()
		recs := make([]reference.Record, len(results))
		for i, r := range results {
			recs[i] = r.Record
			recs[i].Source = reference.ImportSource{Type: "parse"}
		}
		resp.Saved = saveRecords(repoRoot, config.RecordsPath(repoRoot), recs)
	}

	if humanOutput {
		printParseHuman(resp)
		return nil
	}
	return outputJSON(resp)
}

func parseInput(args []string) ([]string, error) {
	switch {
	case parseStdin:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return pdf.SplitReferences(string(data)), nil
	case parseClipboard:
		text, err := clipboard.Paste()
		if err != nil {
			return nil, fmt.Errorf("reading clipboard: %w", err)
		}
		return pdf.SplitReferences(text), nil
	case parsePDF != "":
		return pdf.ExtractReferences(parsePDF)
	case len(args) > 0:
		return []string{strings.Join(args, " ")}, nil
	default:
		return nil, fmt.Errorf("no input: pass a citation, --stdin, --clipboard or --pdf")
	}
}

func printParseHuman(resp ParseResponse) {
	for i, r := range resp.Results {
		rec := r.Record
		fmt.Printf("%d. [%s, %s, %d%%]\n", i+1, r.DetectedStyle, rec.Language, r.Confidence)
		fmt.Printf("   authors: %s\n", formatAuthorsShort(rec.Authors, 5))
		if rec.Year > 0 {
			fmt.Printf("   year:    %d\n", rec.Year)
		}
		fmt.Printf("   title:   %s\n", rec.Title)
		for _, f := range []struct{ name, value string }{
			{"venue", rec.Venue}, {"volume", rec.Volume}, {"issue", rec.Issue}, {"pages", rec.Pages},
			{"publisher", rec.Publisher}, {"doi", rec.DOI}, {"isbn", rec.ISBN}, {"url", rec.URL},
		} {
			if f.value != "" {
				fmt.Printf("   %-8s %s\n", f.name+":", f.value)
			}
		}
	}
	for _, s := range resp.Saved {
		if s.Action == "skip" {
			fmt.Printf("skipped %s (%s)\n", s.ID, s.Reason)
		} else {
			fmt.Printf("saved %s\n", s.ID)
		}
	}
}
