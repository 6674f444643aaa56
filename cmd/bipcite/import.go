package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/bipcite/internal/config"
	"github.com/matsen/bipcite/internal/importer"
)

var importDryRun bool

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import best-guess JSON records",
	Long: `Import records from best-guess JSON, such as the output of a browser
extension. The file holds one object or an array of objects with fields
like title, authors, year or date, journal, volume, issue, pages, doi.

Usage:
  bipcite import scraped.json
  bipcite import scraped.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	Imported int          `json:"imported"`
	Skipped  int          `json:"skipped"`
	Errors   []string     `json:"errors"`
	Details  []SaveAction `json:"details,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitError, "reading file: %v", err)
	}

	recs, parseErrors := importer.ParseExtension(data)
	errStrs := make([]string, len(parseErrors))
	for i, e := range parseErrors {
		errStrs[i] = e.Error()
		log.Warn().Err(e).Msg("skipping entry")
	}
	if len(recs) == 0 && len(parseErrors) > 0 {
		exitWithError(ExitDataError, "failed to parse any records: %v", parseErrors[0])
	}

	result := ImportResult{Errors: errStrs, Skipped: len(parseErrors)}
	if importDryRun {
		for _, rec := range recs {
			result.Details = append(result.Details, SaveAction{ID: citeKey(rec), Action: "would_save", Title: truncateString(rec.Title, ParseTitleMaxLen)})
		}
		result.Imported = len(recs)
	} else {
		result.Details = saveRecords(repoRoot, config.RecordsPath(repoRoot), recs)
		for _, d := range result.Details {
			if d.Action == "saved" {
				result.Imported++
			} else {
				result.Skipped++
			}
		}
	}

	if humanOutput {
		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		fmt.Printf("%s %d records, skipped %d\n", verb, result.Imported, result.Skipped)
		for _, e := range errStrs {
			fmt.Printf("  - %s\n", e)
		}
		return nil
	}
	return outputJSON(result)
}
