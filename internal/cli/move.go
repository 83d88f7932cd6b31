package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mydehq/vidmove/internal/config"
	"github.com/mydehq/vidmove/internal/mover"
	"github.com/mydehq/vidmove/internal/report"
	"github.com/mydehq/vidmove/internal/scanner"
)

// lockFileName guards the destination against concurrent runs; the
// rename-on-conflict probe is not race-free across processes.
const lockFileName = ".vidmove.lock"

var (
	flagDest       string
	flagKeyword    string
	flagExts       []string
	flagNameGlob   string
	flagOnConflict string
	flagKeepGoing  bool
	flagDryRun     bool
	flagYes        bool
	flagNoProgress bool
)

var moveCmd = &cobra.Command{
	Use:   "move [source]",
	Short: "Move matching video files into the destination directory",
	Long: `Walks the source tree (default: current directory), moves every video file
whose name contains the keyword into the destination directory, flattening
the original subdirectory structure, and prints one line per move.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source := "."
		if len(args) > 0 {
			source = args[0]
		}
		if err := runMove(cmd, source); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	moveCmd.Flags().StringVarP(&flagDest, "dest", "d", "", "destination directory (default from config)")
	moveCmd.Flags().StringVarP(&flagKeyword, "keyword", "k", "", "keyword the filename must contain")
	moveCmd.Flags().StringSliceVarP(&flagExts, "ext", "e", nil, "video extensions to match (overrides config formats)")
	moveCmd.Flags().StringVar(&flagNameGlob, "name-glob", "", "additional glob the filename must match")
	moveCmd.Flags().StringVar(&flagOnConflict, "on-conflict", "", "conflict policy: rename, skip or overwrite")
	moveCmd.Flags().BoolVar(&flagKeepGoing, "keep-going", false, "continue after per-file move failures")
	moveCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report what would be moved without touching files")
	moveCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "skip the confirmation prompt")
	moveCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "disable the progress bar")
	RootCmd.AddCommand(moveCmd)
}

// moveOptions is the fully resolved configuration for one run: flags
// layered over the config file layered over built-in defaults.
type moveOptions struct {
	source    string
	dest      string
	filter    *scanner.Filter
	policy    mover.ConflictPolicy
	keepGoing bool
	dryRun    bool
}

func resolveMoveOptions(cmd *cobra.Command, source string) (*moveOptions, error) {
	cfg, err := config.Effective()
	if err != nil {
		return nil, err
	}

	keyword := cfg.Keyword
	if cmd.Flags().Changed("keyword") {
		keyword = flagKeyword
	}
	if keyword == "" && !cmd.Flags().Changed("keyword") {
		return nil, errors.New("a keyword is required (--keyword flag or config file); pass --keyword \"\" to match every video file")
	}

	formats := cfg.Formats
	if len(flagExts) > 0 {
		formats = flagExts
	}

	filter, err := scanner.NewFilter(keyword, formats, flagNameGlob)
	if err != nil {
		return nil, err
	}

	policyName := cfg.OnConflict
	if flagOnConflict != "" {
		policyName = flagOnConflict
	}
	policy, err := mover.ParseConflictPolicy(policyName)
	if err != nil {
		return nil, err
	}

	dest := cfg.Destination
	if flagDest != "" {
		dest = flagDest
	}
	dest, err = config.ExpandHome(dest)
	if err != nil {
		return nil, err
	}
	dest, err = filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination path: %w", err)
	}

	absSource, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	return &moveOptions{
		source:    absSource,
		dest:      dest,
		filter:    filter,
		policy:    policy,
		keepGoing: flagKeepGoing,
		dryRun:    flagDryRun,
	}, nil
}

func runMove(cmd *cobra.Command, source string) error {
	opts, err := resolveMoveOptions(cmd, source)
	if err != nil {
		return err
	}
	_, err = executeMove(opts)
	return err
}

// executeMove runs the resolved pipeline: ensure destination, lock, scan,
// confirm, move, summarize. It returns the summary for inspection.
func executeMove(opts *moveOptions) (*report.Summary, error) {
	if opts.dryRun {
		fmt.Println(styleFlag.Render("[DRY RUN]"))
	}

	mv := mover.New(mover.OSFS{}, opts.dest, opts.policy, opts.dryRun)
	if err := mv.EnsureDest(); err != nil {
		return nil, err
	}

	if !opts.dryRun {
		lock := flock.New(filepath.Join(opts.dest, lockFileName))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("failed to lock destination: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("another vidmove run is using %s", opts.dest)
		}
		// best effort: do not leave the lock file in the user's output dir
		defer func() {
			_ = lock.Unlock()
			_ = os.Remove(lock.Path())
		}()
	}

	sc := &scanner.Scanner{Root: opts.source, Filter: opts.filter, Exclude: opts.dest}
	matches, err := sc.Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", opts.source, err)
	}

	if len(matches) == 0 {
		fmt.Printf("No matching files under %s\n", StylePath.Render(opts.source))
		fmt.Println("Transfer complete.")
		return &report.Summary{DryRun: opts.dryRun}, nil
	}

	if !opts.dryRun && !flagYes && isatty.IsTerminal(os.Stdout.Fd()) {
		ok, err := confirmMove(len(matches), opts.dest)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Info(StyleDim.Render("Move cancelled"))
			return nil, nil
		}
	}

	label := "Moved"
	if opts.dryRun {
		label = "Would move"
	}

	bar := newProgress(len(matches), opts.dryRun)
	summary := &report.Summary{DryRun: opts.dryRun}

	for _, c := range matches {
		res := mv.Move(c)
		summary.Record(res)
		if bar != nil {
			_ = bar.Add(1)
		}

		switch res.Outcome {
		case mover.OutcomeFailed:
			if !opts.keepGoing {
				return summary, res.Err
			}
			logger.Error(res.Err.Error())
		case mover.OutcomeSkipped:
			logger.Debug("skipped, destination exists", "file", res.Source)
		default:
			fmt.Println(renderMove(label, res.Source, res.Dest))
		}
	}

	fmt.Println(summary.Render())
	fmt.Println("Transfer complete.")

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total())
	}
	return summary, nil
}

// confirmMove asks before touching the filesystem. Aborting the prompt
// (esc / ctrl+c) counts as "no".
func confirmMove(count int, dest string) (bool, error) {
	confirmed := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Move %d files to %s?", count, dest)).
				Value(&confirmed),
		),
	).WithTheme(vidmoveTheme()).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

func newProgress(total int, dryRun bool) *progressbar.ProgressBar {
	if flagNoProgress || dryRun || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Moving"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}
