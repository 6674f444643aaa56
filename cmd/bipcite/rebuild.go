package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query cache from records.jsonl",
	Long: `Rebuild the SQLite query cache from the JSONL source file.

Use this after pulling changes from git or if the cache becomes corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	count := mustRebuild(mustFindRepository())

	if humanOutput {
		fmt.Printf("Rebuilt query cache with %d records\n", count)
		return nil
	}
	return outputJSON(RebuildResult{Status: "rebuilt", Records: count})
}
