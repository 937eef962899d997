// Package corpus builds the reference template corpus: the markdown files
// of the pinned blank experiment template, indexed by repository-relative
// path. Classification compares candidate files against these entries.
package corpus

import (
	"path"
	"path/filepath"
	"sync"
	"time"
)

// Defaults for template acquisition. Deployments pin an exact tag or
// commit through configuration; the defaults track the canonical blank
// experiment template.
const (
	DefaultRepository = "github.com/virtual-labs/ph3-exp-template"
	DefaultRef        = "main"
	DefaultTimeout    = 60 * time.Second
)

// Config selects the reference template source.
type Config struct {
	// Repository is the template repository. DefaultRepository when empty.
	Repository string
	// Ref is the pinned tag, branch, or full commit SHA to fetch.
	Ref string
	// TemplateDir points at a local template checkout. When set, no git
	// command runs and Repository/Ref are ignored.
	TemplateDir string
	// Timeout bounds the whole acquisition. DefaultTimeout when zero.
	Timeout time.Duration
}

func (c Config) repository() string {
	if c.Repository == "" {
		return DefaultRepository
	}
	return c.Repository
}

func (c Config) ref() string {
	if c.Ref == "" {
		return DefaultRef
	}
	return c.Ref
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Corpus is an immutable mapping from repository-relative path to template
// file text. A degraded corpus is empty: acquisition failed and callers
// fall back to pattern-only classification.
type Corpus struct {
	files    map[string]string
	paths    []string
	degraded bool

	cleanup func() error
	once    sync.Once
}

// Lookup returns the template text for relPath. Exact path match first;
// otherwise the first entry, in sorted path order, whose basename equals
// the basename of relPath. Handles reorganized repositories where a file
// kept its name but moved directories.
func (c *Corpus) Lookup(relPath string) (string, bool) {
	if c == nil || len(c.files) == 0 {
		return "", false
	}
	key := filepath.ToSlash(relPath)
	if text, ok := c.files[key]; ok {
		return text, true
	}
	base := path.Base(key)
	for _, p := range c.paths {
		if path.Base(p) == base {
			return c.files[p], true
		}
	}
	return "", false
}

// Len reports the number of template files in the corpus.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.files)
}

// Paths returns the corpus paths in sorted order.
func (c *Corpus) Paths() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.paths...)
}

// Degraded reports whether template acquisition failed and the corpus is
// empty.
func (c *Corpus) Degraded() bool {
	return c == nil || c.degraded
}

// Close removes the transient clone directory, if any. Safe to call more
// than once and on a nil receiver.
func (c *Corpus) Close() error {
	if c == nil || c.cleanup == nil {
		return nil
	}
	var err error
	c.once.Do(func() {
		err = c.cleanup()
	})
	return err
}
