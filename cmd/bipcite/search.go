package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/bipcite/internal/reference"
)

var (
	searchLimit int
	listLimit   int
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum number of results")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of records (0 for all)")
	rootCmd.AddCommand(searchCmd, listCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles, authors and venues",
	Long: `Search stored records by title, author or venue.

Examples:
  bipcite search "citation parsing"
  bipcite search ربیعی --human`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runSearch(cmd *cobra.Command, args []string) error {
	db := mustOpenDatabase(mustFindRepository())
	defer db.Close()

	recs, err := db.Search(args[0], searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}
	return printRecords(recs, SearchTitleMaxLen)
}

func runList(cmd *cobra.Command, args []string) error {
	db := mustOpenDatabase(mustFindRepository())
	defer db.Close()

	recs, err := db.ListAll(listLimit)
	if err != nil {
		exitWithError(ExitError, "listing records: %v", err)
	}
	return printRecords(recs, ListTitleMaxLen)
}

func printRecords(recs []reference.Record, titleLen int) error {
	if humanOutput {
		printRecordsHuman(recs, titleLen)
		return nil
	}
	return outputJSON(summarize(recs))
}
