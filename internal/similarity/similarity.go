// Package similarity computes the multi-signal resemblance between a
// candidate content file and its reference template counterpart. All
// signals are pure text computations; the engine performs no I/O and is
// safe for concurrent use.
package similarity

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/mdtext"
)

// Metrics holds the five independent similarity signals, each in [0,1],
// plus their weighted combination.
type Metrics struct {
	Text        float64 `json:"text_similarity"`
	LineOverlap float64 `json:"line_overlap"`
	Structure   float64 `json:"structure_similarity"`
	Placeholder float64 `json:"placeholder_score"`
	Length      float64 `json:"length_ratio"`
	Overall     float64 `json:"overall_similarity"`
}

// Weights is the linear combination applied to the five signals. Text
// similarity dominates because it is the most discriminating signal for
// verbatim copies; length ratio is weighted lowest because a genuine
// short file and a template stub can have similar lengths.
type Weights struct {
	Text        float64
	LineOverlap float64
	Structure   float64
	Placeholder float64
	Length      float64
}

// DefaultWeights returns the standard signal weights.
func DefaultWeights() Weights {
	return Weights{
		Text:        0.30,
		LineOverlap: 0.25,
		Structure:   0.20,
		Placeholder: 0.15,
		Length:      0.10,
	}
}

// Sum returns the total of all five weights.
func (w Weights) Sum() float64 {
	return w.Text + w.LineOverlap + w.Structure + w.Placeholder + w.Length
}

// Validate checks that the weights sum to 1.0.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("similarity: weights sum to %v, want 1.0", w.Sum())
	}
	return nil
}

// PhraseSource supplies placeholder-phrase detection for the placeholder
// signal.
type PhraseSource interface {
	PlaceholderHits(text string) []string
}

// Engine computes Metrics for candidate/template pairs.
type Engine struct {
	Phrases PhraseSource
	Weights Weights
}

// NewEngine returns an Engine with default weights.
func NewEngine(phrases PhraseSource) *Engine {
	return &Engine{Phrases: phrases, Weights: DefaultWeights()}
}

// Compute derives all five signals and their weighted overall score for
// one candidate/template pair. It is deterministic for fixed inputs.
func (e *Engine) Compute(candidate, template string) Metrics {
	m := Metrics{
		Text:        textSimilarity(candidate, template),
		LineOverlap: lineOverlap(candidate, template),
		Structure:   structureSimilarity(candidate, template),
		Placeholder: e.placeholderScore(candidate, template),
		Length:      lengthRatio(candidate, template),
	}
	w := e.Weights
	m.Overall = clamp01(m.Text*w.Text +
		m.LineOverlap*w.LineOverlap +
		m.Structure*w.Structure +
		m.Placeholder*w.Placeholder +
		m.Length*w.Length)
	return m
}

// textSimilarity is the classic sequence-similarity ratio over the
// lower-cased texts: twice the number of matching characters divided by
// the total length of both inputs.
func textSimilarity(candidate, template string) float64 {
	a := strings.ToLower(candidate)
	b := strings.ToLower(template)

	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1.0
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // unbounded: results must be deterministic
	diffs := dmp.DiffMain(a, b, false)

	equal := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			equal += utf8.RuneCountInString(d.Text)
		}
	}
	return clamp01(2 * float64(equal) / float64(total))
}

// lineOverlap is the fraction of the template's distinct non-blank
// trimmed lower-cased lines that appear verbatim in the candidate.
func lineOverlap(candidate, template string) float64 {
	tmplLines := lineSet(template)
	if len(tmplLines) == 0 {
		return 0
	}
	candLines := lineSet(candidate)

	common := 0
	for line := range tmplLines {
		if _, ok := candLines[line]; ok {
			common++
		}
	}
	return clamp01(float64(common) / float64(len(tmplLines)))
}

func lineSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		set[line] = struct{}{}
	}
	return set
}

// structureSimilarity is the fraction of the template's headings (by
// text, case-insensitive) that also appear as headings in the candidate.
// A template with no headings gives the neutral 0.5: the signal neither
// confirms nor denies template status.
func structureSimilarity(candidate, template string) float64 {
	tmplHeadings := headingSet(template)
	if len(tmplHeadings) == 0 {
		return 0.5
	}
	candHeadings := headingSet(candidate)

	common := 0
	for h := range tmplHeadings {
		if _, ok := candHeadings[h]; ok {
			common++
		}
	}
	return clamp01(float64(common) / float64(len(tmplHeadings)))
}

func headingSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, h := range mdtext.Headings([]byte(text)) {
		key := strings.ToLower(strings.TrimSpace(h.Text))
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

// placeholderScore is the fraction of placeholder phrases found in the
// template that also appear in the candidate. Zero when the template
// matches no phrases.
func (e *Engine) placeholderScore(candidate, template string) float64 {
	if e.Phrases == nil {
		return 0
	}
	tmplHits := e.Phrases.PlaceholderHits(template)
	if len(tmplHits) == 0 {
		return 0
	}

	candHits := make(map[string]struct{})
	for _, h := range e.Phrases.PlaceholderHits(candidate) {
		candHits[h] = struct{}{}
	}

	common := 0
	for _, h := range tmplHits {
		if _, ok := candHits[h]; ok {
			common++
		}
	}
	return clamp01(float64(common) / float64(len(tmplHits)))
}

// lengthRatio compares raw lengths: min(len)/max(len, 1).
func lengthRatio(candidate, template string) float64 {
	a := len(candidate)
	b := len(template)
	min, max := a, b
	if a > b {
		min, max = b, a
	}
	if max < 1 {
		max = 1
	}
	return clamp01(float64(min) / float64(max))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
