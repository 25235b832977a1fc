// Command repoview browses large collections of source-code records: a JSON
// dump (array or JSON-lines) or a scanned directory tree. The default command
// opens the interactive browser; subcommands cover headless export, summary
// statistics, and an MCP server over the same engine.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shuvrobasu/repo-view-extract/internal/tui"
)

var (
	flagInput     string
	flagFromDir   bool
	flagExportDir string
)

var rootCmd = &cobra.Command{
	Use:   "repoview",
	Short: "Browse, filter, and export source-code record collections",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Flags win; the environment fills in what wasn't given.
		if flagInput == "" {
			flagInput = os.Getenv("REPOVIEW_INPUT")
		}
		if env := os.Getenv("REPOVIEW_EXPORT_DIR"); env != "" && !cmd.Flags().Changed("export-dir") {
			flagExportDir = env
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(tui.Config{
			Path:      flagInput,
			FromDir:   flagFromDir,
			ExportDir: flagExportDir,
		})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "", "record dump to load (JSON array or JSON-lines)")
	rootCmd.PersistentFlags().BoolVar(&flagFromDir, "dir", false, "treat --input as a directory tree to scan")
	rootCmd.Flags().StringVar(&flagExportDir, "export-dir", "exported", "directory the e key exports into")
}
