package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bipcite/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set repository configuration values.

Usage:
  bipcite config                              # Show all config
  bipcite config default_style                # Get specific value
  bipcite config default_style vancouver      # Set value
  bipcite config default_language fa-IR

Keys:
  default_style     apa, mla, harvard, chicago or vancouver (aliases accepted)
  default_language  fa-IR, en-US or auto
  persian_heading   Bibliography heading for Persian sources
  english_heading   Bibliography heading for English sources`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	switch len(args) {
	case 0:
		if humanOutput {
			for _, k := range config.Keys() {
				v, _ := cfg.Get(k)
				fmt.Printf("%-17s %s\n", k+":", v)
			}
			return nil
		}
		return outputJSON(cfg)

	case 1:
		v, err := cfg.Get(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(v)
			return nil
		}
		return outputJSON(map[string]string{args[0]: v})

	default:
		if err := cfg.Set(args[0], args[1]); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if err := cfg.Save(repoRoot); err != nil {
			exitWithError(ExitError, "saving config: %v", err)
		}
		if humanOutput {
			fmt.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		}
		return outputJSON(UpdateResponse{Status: "updated", Key: args[0], Value: args[1]})
	}
}
