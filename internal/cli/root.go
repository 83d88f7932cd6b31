// Package cli implements the vidmove command line interface.
package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// logger is the shared application logger; styled in styles.go.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

var flagVerbose bool

// RootCmd is the top-level vidmove command.
var RootCmd = &cobra.Command{
	Use:   "vidmove",
	Short: "Move keyword-matched video files into a flat directory",
	Long: `vidmove recursively scans a source directory tree, picks out files whose
name contains a keyword and whose extension is a recognized video format,
and moves each match into a single flat destination directory.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	configureStyles()
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
