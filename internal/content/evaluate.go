package content

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/classify"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/log"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/mdtext"
)

// Engine evaluates content files against an immutable classifier.
type Engine struct {
	Classifier *classify.Engine
	Logger     *log.Logger

	// Limit bounds parallel file evaluations. Defaults to NumCPU.
	Limit int
}

// NewEngine returns an evaluation engine over the given classifier.
func NewEngine(classifier *classify.Engine, logger *log.Logger) *Engine {
	return &Engine{Classifier: classifier, Logger: logger}
}

// EvaluateFile evaluates a single content file of the repository rooted
// at repoDir. Read failures produce an error record, never a Go error:
// one bad file must not abort the batch.
func (e *Engine) EvaluateFile(repoDir string, relPath string) FileResult {
	raw, err := os.ReadFile(filepath.Join(repoDir, filepath.FromSlash(relPath)))
	if err != nil {
		return errorResult(relPath, "file could not be read")
	}
	if !utf8.Valid(raw) {
		return errorResult(relPath, "file is not valid UTF-8")
	}
	content := strings.TrimSpace(mdtext.NormalizeNewlines(string(raw)))

	doc := NewDocument(relPath, content)
	cls := e.Classifier.Classify(relPath, content)

	result := FileResult{
		File:               relPath,
		Status:             StatusEvaluated,
		IsTemplate:         cls.IsTemplate,
		IsShortContent:     isShortContent(relPath, doc),
		TemplateSimilarity: cls.Similarity,
		Classification:     &cls,
	}
	score(&result, doc)

	e.Logger.Printf("evaluated %s: template=%v short=%v score=%.1f (%s)",
		relPath, result.IsTemplate, result.IsShortContent, result.AverageScore, cls.Reason)
	return result
}

// Evaluate runs every file through EvaluateFile, in parallel, and
// aggregates the batch. Results keep the order of files. The error
// return only reports context cancellation; per-file failures are
// recorded inline.
func (e *Engine) Evaluate(ctx context.Context, repoDir string, files []string) (*Report, error) {
	if len(files) == 0 {
		return &Report{Status: "No content files found"}, nil
	}

	limit := e.Limit
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, relPath := range files {
		i, relPath := i, relPath
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.EvaluateFile(repoDir, relPath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("content evaluation: %w", err)
	}

	return aggregate(results), nil
}

// aggregate folds per-file results into the batch report. Only evaluated
// files count toward the average and the template percentage.
func aggregate(results []FileResult) *Report {
	report := &Report{
		Files:      results,
		TotalFiles: len(results),
	}

	totalScore := 0.0
	for _, r := range results {
		if r.Status != StatusEvaluated {
			continue
		}
		report.EvaluatedCount++
		totalScore += r.AverageScore
		if r.IsTemplate {
			report.TemplateCount++
		}
		if r.IsShortContent {
			report.ShortContentCount++
		}
	}

	if report.EvaluatedCount > 0 {
		report.AverageScore = round1(totalScore / float64(report.EvaluatedCount))
		report.TemplatePercentage = round1(float64(report.TemplateCount) / float64(report.EvaluatedCount) * 100)
	}
	report.Status = fmt.Sprintf("Evaluated %d/%d content files", report.EvaluatedCount, report.TotalFiles)
	return report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
