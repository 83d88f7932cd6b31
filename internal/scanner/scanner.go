// Package scanner walks a source tree and selects the files that match the
// configured keyword, format and glob predicates.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Candidate is one regular file found during the walk: its containing
// directory and its bare name.
type Candidate struct {
	Dir  string
	Name string
}

// Path returns the full path of the candidate.
func (c Candidate) Path() string {
	return filepath.Join(c.Dir, c.Name)
}

// Filter holds the compiled match predicates. A file matches when its name
// contains the keyword (case-insensitive), its extension is one of the
// configured formats (case-insensitive), and, if a name glob was given, the
// glob matches the name.
type Filter struct {
	keyword  string
	exts     map[string]bool
	nameGlob glob.Glob
}

// NewFilter builds a filter from a keyword, a list of formats (with or
// without the leading dot, any case) and an optional glob pattern.
func NewFilter(keyword string, formats []string, namePattern string) (*Filter, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("no formats configured")
	}

	exts := make(map[string]bool, len(formats))
	for _, f := range formats {
		ext := strings.ToLower(strings.TrimSpace(f))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}

	filter := &Filter{
		keyword: strings.ToLower(keyword),
		exts:    exts,
	}

	if namePattern != "" {
		g, err := glob.Compile(namePattern)
		if err != nil {
			return nil, fmt.Errorf("invalid name pattern %q: %w", namePattern, err)
		}
		filter.nameGlob = g
	}
	return filter, nil
}

// Matches reports whether a bare filename passes all predicates.
func (f *Filter) Matches(name string) bool {
	lower := strings.ToLower(name)
	if !strings.Contains(lower, f.keyword) {
		return false
	}
	if !f.exts[filepath.Ext(lower)] {
		return false
	}
	if f.nameGlob != nil && !f.nameGlob.Match(name) {
		return false
	}
	return true
}

// Scanner walks a tree rooted at Root and yields matching candidates.
// Exclude, when set, names a directory whose subtree is skipped entirely;
// the move command uses it to keep the destination out of its own input.
type Scanner struct {
	Root    string
	Filter  *Filter
	Exclude string
}

// Run walks the tree depth-first and calls fn for every matching file.
// A non-nil error from fn stops the walk and is returned unchanged, so
// callers choose their own abort policy.
func (s *Scanner) Run(fn func(Candidate) error) error {
	return filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if s.Exclude != "" && path == s.Exclude {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !s.Filter.Matches(d.Name()) {
			return nil
		}
		return fn(Candidate{Dir: filepath.Dir(path), Name: d.Name()})
	})
}

// Collect runs the walk and gathers all matches into a slice.
func (s *Scanner) Collect() ([]Candidate, error) {
	var out []Candidate
	err := s.Run(func(c Candidate) error {
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
