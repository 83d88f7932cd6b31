package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mydehq/vidmove/internal/mover"
	"github.com/mydehq/vidmove/internal/scanner"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// testOptions builds resolved options against temp directories, bypassing
// flag and config resolution.
func testOptions(t *testing.T, source, dest string, dryRun bool) *moveOptions {
	t.Helper()
	filter, err := scanner.NewFilter("play", []string{"mp4", "avi", "mov", "mkv", "flv", "wmv"}, "")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	return &moveOptions{
		source: source,
		dest:   dest,
		filter: filter,
		policy: mover.ConflictRename,
		dryRun: dryRun,
	}
}

func TestExecuteMove(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "Filtered_Files")
	writeFile(t, filepath.Join(source, "a", "clip_play.mp4"))
	writeFile(t, filepath.Join(source, "b", "notes.txt"))
	writeFile(t, filepath.Join(source, "c", "play_logo.png"))

	summary, err := executeMove(testOptions(t, source, dest, false))
	if err != nil {
		t.Fatalf("executeMove: %v", err)
	}

	if summary.Moved != 1 || summary.Total() != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if !exists(filepath.Join(dest, "clip_play.mp4")) {
		t.Error("matched file missing from destination")
	}
	if exists(filepath.Join(source, "a", "clip_play.mp4")) {
		t.Error("matched file still in source tree")
	}
	if !exists(filepath.Join(source, "b", "notes.txt")) || !exists(filepath.Join(source, "c", "play_logo.png")) {
		t.Error("non-matching files must stay in place")
	}
	if exists(filepath.Join(dest, lockFileName)) {
		t.Error("lock file must be removed after the run")
	}
}

func TestExecuteMoveKeepGoing(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(source, "a", "bad_play.mp4"))
	writeFile(t, filepath.Join(source, "b", "good_play.mp4"))
	// a same-named directory at the destination makes the rename fail
	if err := os.MkdirAll(filepath.Join(dest, "bad_play.mp4"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	opts := testOptions(t, source, dest, false)
	opts.policy = mover.ConflictOverwrite
	opts.keepGoing = true

	summary, err := executeMove(opts)
	if err == nil {
		t.Fatal("expected a non-nil error when files failed")
	}
	if summary.Failed != 1 || summary.Moved != 1 {
		t.Fatalf("summary = %+v, want one failure and one move", summary)
	}
	if !exists(filepath.Join(dest, "good_play.mp4")) {
		t.Error("run must continue past the failure and move the rest")
	}
	if !exists(filepath.Join(source, "a", "bad_play.mp4")) {
		t.Error("failed file must stay in the source tree")
	}
}

func TestExecuteMoveAbortsOnFirstFailure(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(source, "a", "bad_play.mp4"))
	writeFile(t, filepath.Join(source, "b", "good_play.mp4"))
	if err := os.MkdirAll(filepath.Join(dest, "bad_play.mp4"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	opts := testOptions(t, source, dest, false)
	opts.policy = mover.ConflictOverwrite

	if _, err := executeMove(opts); err == nil {
		t.Fatal("expected the first failure to abort the run")
	}
	if !exists(filepath.Join(source, "b", "good_play.mp4")) {
		t.Error("files after the aborting failure must stay in place")
	}
}

func TestExecuteMoveDryRun(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "Filtered_Files")
	writeFile(t, filepath.Join(source, "clip_play.mp4"))

	summary, err := executeMove(testOptions(t, source, dest, true))
	if err != nil {
		t.Fatalf("executeMove: %v", err)
	}

	if summary.Moved != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if exists(dest) {
		t.Error("dry run must not create the destination")
	}
	if !exists(filepath.Join(source, "clip_play.mp4")) {
		t.Error("dry run must not move files")
	}
}

func TestExecuteMoveNoMatches(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "Filtered_Files")
	writeFile(t, filepath.Join(source, "notes.txt"))

	summary, err := executeMove(testOptions(t, source, dest, false))
	if err != nil {
		t.Fatalf("executeMove: %v", err)
	}
	if summary.Total() != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestExecuteMoveDestInsideSource(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(source, "Filtered_Files")
	writeFile(t, filepath.Join(source, "a", "clip_play.mp4"))
	writeFile(t, filepath.Join(dest, "already_play.mp4"))

	summary, err := executeMove(testOptions(t, source, dest, false))
	if err != nil {
		t.Fatalf("executeMove: %v", err)
	}

	if summary.Total() != 1 {
		t.Fatalf("files already in the destination must not be re-matched: %+v", summary)
	}
	if !exists(filepath.Join(dest, "already_play.mp4")) {
		t.Error("pre-existing destination file was disturbed")
	}
}

func TestResolveMoveOptions(t *testing.T) {
	// Isolate from any real user config.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Run("keyword required", func(t *testing.T) {
		cmd := moveCmd
		if _, err := resolveMoveOptions(cmd, "."); err == nil {
			t.Error("expected an error when no keyword is configured")
		}
	})

	t.Run("flags win", func(t *testing.T) {
		cmd := moveCmd
		if err := cmd.Flags().Set("keyword", "play"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := cmd.Flags().Set("dest", "/tmp/filtered"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		t.Cleanup(func() {
			flagKeyword = ""
			flagDest = ""
			_ = cmd.Flags().Set("keyword", "")
			_ = cmd.Flags().Set("dest", "")
		})

		opts, err := resolveMoveOptions(cmd, ".")
		if err != nil {
			t.Fatalf("resolveMoveOptions: %v", err)
		}
		if opts.dest != "/tmp/filtered" {
			t.Errorf("dest = %q", opts.dest)
		}
		if opts.policy != mover.ConflictRename {
			t.Errorf("policy = %q, want the rename default", opts.policy)
		}
		if !opts.filter.Matches("clip_play.mp4") {
			t.Error("filter should use the flag keyword")
		}
	})
}
