package corpus

import (
	"context"
	"fmt"
	"os"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/log"
)

// Build acquires the reference template source and returns the corpus.
// On any acquisition failure it returns an empty degraded corpus together
// with the error: the caller logs the error and continues with
// pattern-only classification. Callers must Close the corpus when done.
func Build(ctx context.Context, cfg Config, logger *log.Logger) (*Corpus, error) {
	return buildWithRunner(ctx, cfg, logger, defaultGitRunner)
}

func buildWithRunner(ctx context.Context, cfg Config, logger *log.Logger, runner GitRunner) (*Corpus, error) {
	if cfg.TemplateDir != "" {
		files, paths, err := scanTemplates(cfg.TemplateDir)
		if err != nil {
			return degraded(), fmt.Errorf("local template dir: %w", err)
		}
		logger.Printf("template corpus: %d files from %s", len(files), cfg.TemplateDir)
		return &Corpus{files: files, paths: paths}, nil
	}

	dir, err := os.MkdirTemp("", "vlabqa-template-*")
	if err != nil {
		return degraded(), fmt.Errorf("create template dir: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(dir) }

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	if err := acquire(ctx, cfg, dir, runner); err != nil {
		_ = cleanup()
		return degraded(), err
	}

	files, paths, err := scanTemplates(dir)
	if err != nil {
		_ = cleanup()
		return degraded(), err
	}

	logger.Printf("template corpus: %d files from %s at %s", len(files), cfg.repository(), cfg.ref())
	return &Corpus{files: files, paths: paths, cleanup: cleanup}, nil
}

func degraded() *Corpus {
	return &Corpus{degraded: true}
}
