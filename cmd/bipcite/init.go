package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/bipcite/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new bipcite repository",
	Long: `Initialize a new bipcite repository in the current directory.

Creates:
  .bipcite/
  ├── records.jsonl   # Empty file
  ├── config.json     # Default config
  └── cache/          # Empty directory (gitignored)`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a bipcite repository")
	}

	for _, dir := range []string{config.RepoPath(root), config.CachePath(root)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			exitWithError(ExitError, "creating %s: %v", dir, err)
		}
	}

	f, err := os.Create(config.RecordsPath(root))
	if err != nil {
		exitWithError(ExitError, "creating %s: %v", config.RecordsFile, err)
	}
	f.Close()

	cfg := config.Default()
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.ConfigFile, err)
	}

	if err := os.WriteFile(filepath.Join(config.RepoPath(root), ".gitignore"), []byte(config.CacheDir+"/\n"), 0o644); err != nil {
		exitWithError(ExitError, "writing .gitignore: %v", err)
	}

	log.Info().Str("path", root).Msg("initialized repository")
	if humanOutput {
		fmt.Printf("Initialized bipcite repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
