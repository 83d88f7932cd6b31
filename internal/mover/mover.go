// Package mover relocates matched files into a flat destination directory,
// applying an explicit conflict policy and reporting one result per file.
package mover

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mydehq/vidmove/internal/scanner"
)

// ConflictPolicy decides what happens when the destination already contains
// a file with the candidate's name.
type ConflictPolicy string

const (
	// ConflictRename probes name_1.ext, name_2.ext, ... until a free slot
	// is found. Default: it never destroys data.
	ConflictRename ConflictPolicy = "rename"
	// ConflictSkip leaves both files untouched.
	ConflictSkip ConflictPolicy = "skip"
	// ConflictOverwrite replaces the destination file.
	ConflictOverwrite ConflictPolicy = "overwrite"
)

// ParseConflictPolicy validates a policy name from a flag or config value.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(strings.ToLower(s)) {
	case ConflictRename:
		return ConflictRename, nil
	case ConflictSkip:
		return ConflictSkip, nil
	case ConflictOverwrite:
		return ConflictOverwrite, nil
	}
	return "", fmt.Errorf("unknown conflict policy %q (want rename, skip or overwrite)", s)
}

// Outcome classifies what happened to one candidate.
type Outcome int

const (
	// OutcomeMoved means the file now lives at its plain destination path.
	OutcomeMoved Outcome = iota
	// OutcomeRenamed means the file was moved under a probed _N name.
	OutcomeRenamed
	// OutcomeSkipped means the file was left in place (conflict policy).
	OutcomeSkipped
	// OutcomeFailed means an I/O error occurred; Err carries it.
	OutcomeFailed
)

// Result is the explicit per-file outcome of one move attempt.
type Result struct {
	Source  string
	Dest    string
	Outcome Outcome
	Err     error
}

// Mover moves candidates into a single flat destination directory.
// All filesystem access goes through the injected FS so the engine can be
// unit-tested without touching a real disk.
type Mover struct {
	fs     FS
	dest   string
	policy ConflictPolicy
	dryRun bool
	// planned holds destination paths already claimed earlier in a dry
	// run, so conflict resolution sees them the way a real run would see
	// the moved files.
	planned map[string]bool
}

// New returns a Mover writing into dest under the given conflict policy.
// When dryRun is set no filesystem mutation is performed; results report
// what would have happened.
func New(fsys FS, dest string, policy ConflictPolicy, dryRun bool) *Mover {
	return &Mover{fs: fsys, dest: dest, policy: policy, dryRun: dryRun, planned: map[string]bool{}}
}

// EnsureDest creates the destination directory if it does not exist yet.
// Idempotent.
func (m *Mover) EnsureDest() error {
	if m.dryRun {
		return nil
	}
	if err := m.fs.MkdirAll(m.dest, 0o755); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", m.dest, err)
	}
	return nil
}

// Move relocates one candidate into the destination, flattening whatever
// subdirectory it came from.
func (m *Mover) Move(c scanner.Candidate) Result {
	src := c.Path()
	dst := filepath.Join(m.dest, c.Name)

	dst, outcome := m.resolveConflict(dst)
	if outcome == OutcomeSkipped {
		return Result{Source: src, Dest: dst, Outcome: OutcomeSkipped}
	}
	if m.dryRun {
		m.planned[dst] = true
		return Result{Source: src, Dest: dst, Outcome: outcome}
	}

	if err := m.rename(src, dst); err != nil {
		return Result{Source: src, Dest: dst, Outcome: OutcomeFailed, Err: err}
	}
	return Result{Source: src, Dest: dst, Outcome: outcome}
}

// resolveConflict decides the final destination path for dst:
// no collision -> (dst, Moved); collision -> policy-dependent.
func (m *Mover) resolveConflict(dst string) (string, Outcome) {
	if !m.exists(dst) {
		return dst, OutcomeMoved
	}

	switch m.policy {
	case ConflictSkip:
		return dst, OutcomeSkipped
	case ConflictOverwrite:
		return dst, OutcomeMoved
	}

	// rename: probe name_1.ext, name_2.ext, ...
	dir := filepath.Dir(dst)
	base := filepath.Base(dst)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]

	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, i, ext))
		if !m.exists(candidate) {
			return candidate, OutcomeRenamed
		}
	}
}

func (m *Mover) exists(path string) bool {
	if m.planned[path] {
		return true
	}
	_, err := m.fs.Stat(path)
	return err == nil
}

// rename moves src to dst atomically where the filesystem allows it and
// falls back to copy+remove when the two paths live on different devices.
func (m *Mover) rename(src, dst string) error {
	err := m.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("failed to move %s: %w", src, err)
	}

	info, err := m.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}
	if err := m.copyAcross(src, dst); err != nil {
		return err
	}
	// the copy was written with default permissions; carry the source's over
	if err := m.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set destination permissions: %w", err)
	}
	if err := m.fs.Remove(src); err != nil {
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}
	return nil
}

func (m *Mover) copyAcross(src, dst string) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := m.fs.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		// best effort: do not leave a truncated file behind
		_ = m.fs.Remove(dst)
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = m.fs.Remove(dst)
		return fmt.Errorf("failed to finalize destination file: %w", err)
	}
	return nil
}

// isCrossDevice reports whether err is the "invalid cross-device link"
// failure os.Rename returns when src and dst are on different filesystems.
func isCrossDevice(err error) bool {
	return errors.Is(err, errCrossDevice)
}
