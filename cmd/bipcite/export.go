package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bipcite/internal/export"
	"github.com/matsen/bipcite/internal/reference"
)

var (
	exportBibtex bool
	exportKeys   string
	exportAppend string
)

func init() {
	exportCmd.Flags().BoolVar(&exportBibtex, "bibtex", false, "Export to BibTeX format")
	exportCmd.Flags().StringVar(&exportKeys, "keys", "", "Export only specified IDs (comma-separated)")
	exportCmd.Flags().StringVar(&exportAppend, "append", "", "Append entries missing from this .bib file instead of printing")
	exportCmd.MarkFlagRequired("bibtex")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to BibTeX format",
	Long: `Export records to BibTeX format.

Examples:
  bipcite export --bibtex
  bipcite export --bibtex --keys smith2020,rabiei1401
  bipcite export --bibtex --append refs.bib`,
	RunE: runExport,
}

// AppendResult is the response for export --append.
type AppendResult struct {
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
}

func runExport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	var recs []reference.Record
	var err error
	if exportKeys != "" {
		var missing []string
		recs, missing, err = db.GetByIDs(splitIDs(exportKeys))
		if err == nil && len(missing) > 0 {
			exitWithError(ExitNotFound, "unknown keys: %s", strings.Join(missing, ", "))
		}
	} else {
		recs, err = db.ListAll(0)
	}
	if err != nil {
		exitWithError(ExitError, "loading records: %v", err)
	}

	if exportAppend != "" {
		added, skipped, err := export.AppendNew(exportAppend, recs)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Printf("Appended %d entries to %s (%d already present)\n", added, exportAppend, skipped)
			return nil
		}
		return outputJSON(AppendResult{Path: exportAppend, Added: added, Skipped: skipped})
	}

	// BibTeX is always text output, never JSON.
	fmt.Print(export.ToBibTeXList(recs))
	return nil
}
