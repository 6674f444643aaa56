// Package main provides the bipcite CLI entry point.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matsen/bipcite/internal/config"
	"github.com/matsen/bipcite/internal/logging"
	"github.com/matsen/bipcite/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	logLevel    string
	logFormat   string

	log zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra's own errors are printed here.
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bipcite",
	Short: "Parse and render Persian and English citations",
	Long: `bipcite parses free-text citations in Persian and English, stores them
as structured records, and renders in-text citations and bibliographies in
APA, MLA, Harvard, Chicago and Vancouver.

Records are stored in git-versionable JSONL with an ephemeral SQLite cache.
All commands output JSON by default; pass --human for readable output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")
	rootCmd.Version = Version
}

// setupLogging loads .env, then resolves log settings from flags, the
// environment and the global config, in that order.
func setupLogging(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg := logging.DefaultConfig()
	if g, err := config.LoadGlobalConfig(); err == nil {
		if g.LogLevel != "" {
			cfg.Level = g.LogLevel
		}
		if g.LogFormat != "" {
			cfg.Format = g.LogFormat
		}
	}
	if v := os.Getenv("BIPCITE_LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("BIPCITE_LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if logLevel != "" {
		cfg.Level = logLevel
	}
	if logFormat != "" {
		cfg.Format = logFormat
	}

	log = logging.New(cfg).With().Str("command", cmd.Name()).Logger()
	return nil
}

// getStartingDirectory returns the directory to start searching for a
// repository: BIPCITE_ROOT if set, the working directory otherwise.
func getStartingDirectory() (string, int) {
	if root := strings.TrimSpace(os.Getenv("BIPCITE_ROOT")); root != "" {
		return config.ExpandPath(root), 0
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds the repository or exits with a config error.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.ResolveRepository(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the SQLite cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0o755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustRebuild refreshes the SQLite cache from records.jsonl.
func mustRebuild(repoRoot string) int {
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	count, err := db.RebuildFromJSONL(config.RecordsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}
	return count
}
