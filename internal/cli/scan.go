package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mydehq/vidmove/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [source]",
	Short: "Preview which files a move would pick up",
	Long:  "Walks the source tree with the same predicates as move and lists every match without touching anything.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source := "."
		if len(args) > 0 {
			source = args[0]
		}
		if err := runScan(cmd, source); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	scanCmd.Flags().StringVarP(&flagKeyword, "keyword", "k", "", "keyword the filename must contain")
	scanCmd.Flags().StringSliceVarP(&flagExts, "ext", "e", nil, "video extensions to match (overrides config formats)")
	scanCmd.Flags().StringVar(&flagNameGlob, "name-glob", "", "additional glob the filename must match")
	RootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, source string) error {
	opts, err := resolveMoveOptions(cmd, source)
	if err != nil {
		return err
	}

	sc := &scanner.Scanner{Root: opts.source, Filter: opts.filter, Exclude: opts.dest}

	count := 0
	fmt.Printf("%s under: %s\n", StyleHeader.Render("Matching files"), StylePath.Render(opts.source))
	err = sc.Run(func(c scanner.Candidate) error {
		rel, relErr := filepath.Rel(opts.source, c.Path())
		if relErr != nil {
			rel = c.Path()
		}
		fmt.Printf(" %s %s\n", StyleDim.Render("-"), StyleMatch.Render(rel))
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", opts.source, err)
	}

	if count == 0 {
		fmt.Println(StyleDim.Render(" (none)"))
	}
	fmt.Printf("\n%d matching files\n", count)
	return nil
}
