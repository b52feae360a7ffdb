package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/convolog/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "convolog",
	Short: "Inspect, check and convert conversation archives",
	Long: `A CLI for conversation archives: newline-delimited JSON files holding one
recorded dialog per line, each paired with a .metadata sidecar describing
how the data was produced.

Works against archives written by self-chat runs, crowdsourced collection
or model evaluation, and imports raw transcript SQLite databases into the
same format.

Features:
  • List archives with conversation counts and metadata
  • View single conversations, styled or in the classic plain format
  • Check archive health (parseability, dialog shape, sidecar consistency)
  • Export conversations as JSONL, Markdown, YAML or JSON
  • Import transcript databases into a fresh archive

Quick Start:
  convolog list ./runs                  # Find and summarize archives
  convolog view chats.jsonl -i 3        # View one conversation
  convolog export chats.jsonl -f md     # Export as Markdown

For detailed usage, see: https://github.com/iksnae/convolog`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
