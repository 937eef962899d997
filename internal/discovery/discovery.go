// Package discovery selects the content files of a subject experiment
// repository that are eligible for evaluation.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PriorityFiles are the well-known content files, checked first and kept
// in this order at the head of the result.
var PriorityFiles = []string{
	"README.md",
	"experiment/aim.md",
	"experiment/theory.md",
	"experiment/procedure.md",
	"experiment/references.md",
	"experiment/experiment-name.md",
	"experiment/contributors.md",
}

// Defaults for the content walk.
const (
	DefaultContentDir  = "experiment"
	DefaultMaxFileSize = 1024 * 1024
)

func defaultPatterns() []string {
	return []string{"**/*.md", "**/*.markdown"}
}

func defaultExcludedSegments() []string {
	return []string{"simulation", "images"}
}

// Options controls content file selection.
type Options struct {
	// RepoDir is the subject repository root.
	RepoDir string

	// ContentDir is the subtree walked after the priority list,
	// relative to RepoDir. Defaults to "experiment".
	ContentDir string

	// Patterns are glob patterns matched against the lower-cased
	// repository-relative path of walked files. Defaults to markdown
	// extensions. Invalid patterns are skipped.
	Patterns []string

	// MaxFileSize is the size ceiling in bytes for walked files.
	// Files at or above it are silently excluded. Defaults to 1 MiB.
	MaxFileSize int64

	// ExcludedSegments are path segments that disqualify a file.
	// Defaults to simulation and images.
	ExcludedSegments []string
}

// Discover returns the eligible content files of opts.RepoDir as
// slash-separated paths relative to the repository root: existing
// priority files in fixed order, then walked markdown files in
// traversal order. A path never appears twice.
func Discover(opts Options) ([]string, error) {
	if opts.RepoDir == "" {
		opts.RepoDir = "."
	}
	if opts.ContentDir == "" {
		opts.ContentDir = DefaultContentDir
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = defaultPatterns()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.ExcludedSegments == nil {
		opts.ExcludedSegments = defaultExcludedSegments()
	}

	w := &walker{
		opts:     opts,
		patterns: validatePatterns(opts.Patterns),
		excluded: make(map[string]bool, len(opts.ExcludedSegments)),
		seen:     make(map[string]bool),
	}
	for _, seg := range opts.ExcludedSegments {
		w.excluded[seg] = true
	}

	for _, rel := range PriorityFiles {
		info, err := os.Stat(filepath.Join(opts.RepoDir, filepath.FromSlash(rel)))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		w.add(rel)
	}

	contentRoot := filepath.Join(opts.RepoDir, filepath.FromSlash(opts.ContentDir))
	if info, err := os.Stat(contentRoot); err != nil || !info.IsDir() {
		return w.result, nil
	}
	if err := filepath.WalkDir(contentRoot, w.visit); err != nil {
		return nil, err
	}
	return w.result, nil
}

// validatePatterns returns patterns that are syntactically valid.
func validatePatterns(patterns []string) []string {
	valid := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if doublestar.ValidatePattern(p) {
			valid = append(valid, p)
		}
	}
	return valid
}

// walker holds state for the content tree walk.
type walker struct {
	opts     Options
	patterns []string
	excluded map[string]bool
	seen     map[string]bool
	result   []string
}

// visit is the fs.WalkDirFunc callback.
func (w *walker) visit(path string, d fs.DirEntry, walkErr error) error {
	if walkErr != nil {
		return walkErr
	}

	rel, err := filepath.Rel(w.opts.RepoDir, path)
	if err != nil || rel == "." {
		return nil
	}
	rel = filepath.ToSlash(rel)

	if d.IsDir() {
		if w.excluded[d.Name()] {
			return filepath.SkipDir
		}
		return nil
	}

	if w.hasExcludedSegment(rel) {
		return nil
	}
	if !w.matchesAny(strings.ToLower(rel)) {
		return nil
	}

	info, err := d.Info()
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	if info.Size() >= w.opts.MaxFileSize {
		return nil
	}

	w.add(rel)
	return nil
}

// hasExcludedSegment reports whether any path segment of rel is excluded.
func (w *walker) hasExcludedSegment(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if w.excluded[seg] {
			return true
		}
	}
	return false
}

// matchesAny reports whether rel matches any configured pattern.
func (w *walker) matchesAny(rel string) bool {
	for _, p := range w.patterns {
		matched, err := doublestar.Match(p, rel)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// add appends rel to the result unless already present.
func (w *walker) add(rel string) {
	if w.seen[rel] {
		return
	}
	w.seen[rel] = true
	w.result = append(w.result, rel)
}
