// Package classify decides whether a content file is unmodified template
// boilerplate or genuine instructional material. It combines the weighted
// similarity score against the reference template with independent
// lexical pattern evidence, trusting the numeric extremes outright and
// requiring corroboration in the ambiguous middle band.
package classify

import (
	"encoding/json"
	"strings"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/mdtext"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/similarity"
)

// Similarity thresholds separating the decision bands.
const (
	HighThreshold   = 0.75
	MediumThreshold = 0.5
	LowThreshold    = 0.3
)

// Words below this count make a file eligible for the generic-short check.
const shortWordLimit = 10

// Band tags the decision path that produced a Result, so each branch's
// contract is testable on its own.
type Band int

const (
	// BandEmpty marks empty or whitespace-only content.
	BandEmpty Band = iota
	// BandHighSimilarity marks similarity above HighThreshold.
	BandHighSimilarity
	// BandMediumCorroborated marks mid-band similarity confirmed by a
	// lexical pattern match.
	BandMediumCorroborated
	// BandLowSimilarity marks similarity below LowThreshold, accepted as
	// genuine without consulting patterns.
	BandLowSimilarity
	// BandPatternOnly marks a strong lexical match deciding on its own.
	BandPatternOnly
	// BandGenericShort marks a very short generic stub.
	BandGenericShort
	// BandGenuine marks the default outcome: no template evidence.
	BandGenuine
)

var bandNames = map[Band]string{
	BandEmpty:              "empty",
	BandHighSimilarity:     "high-similarity",
	BandMediumCorroborated: "medium-corroborated",
	BandLowSimilarity:      "low-similarity",
	BandPatternOnly:        "pattern-only",
	BandGenericShort:       "generic-short",
	BandGenuine:            "genuine",
}

func (b Band) String() string {
	if name, ok := bandNames[b]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON renders the band as its name.
func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// Result is the classification outcome for one file.
type Result struct {
	IsTemplate          bool                `json:"is_template"`
	Similarity          float64             `json:"similarity_score"`
	Band                Band                `json:"band"`
	Reason              string              `json:"detection_reason"`
	ComparisonAvailable bool                `json:"comparison_available"`
	Metrics             *similarity.Metrics `json:"metrics,omitempty"`
}

// TemplateSource resolves a file's reference template counterpart.
type TemplateSource interface {
	Lookup(relPath string) (string, bool)
}

// CueMatcher supplies the lexical pattern signals.
type CueMatcher interface {
	StrongMatch(text string) bool
	WeakMatch(text string) bool
	GenericShortContent(text string) bool
}

// Engine classifies files. It holds only immutable collaborators and is
// safe for concurrent use; classification of one file never depends on
// another.
type Engine struct {
	Corpus  TemplateSource
	Phrases CueMatcher
	Sim     *similarity.Engine

	// StrictStrongMatch checks strong lexical evidence before the
	// similarity bands, so a verbatim boilerplate sentence inside an
	// otherwise heavily edited file still classifies as template. Off by
	// default: the standard band order trusts low similarity outright.
	StrictStrongMatch bool
}

// New returns an Engine over the given collaborators.
func New(corpus TemplateSource, phrases CueMatcher, sim *similarity.Engine) *Engine {
	return &Engine{Corpus: corpus, Phrases: phrases, Sim: sim}
}

// Classify produces the terminal decision for one file in a single pass.
func (e *Engine) Classify(relPath, content string) Result {
	template, found := "", false
	if e.Corpus != nil {
		template, found = e.Corpus.Lookup(relPath)
	}

	if strings.TrimSpace(content) == "" {
		return Result{
			IsTemplate:          true,
			Band:                BandEmpty,
			Reason:              "empty content",
			ComparisonAvailable: found,
		}
	}

	var metrics *similarity.Metrics
	score := 0.0
	if found {
		m := e.Sim.Compute(content, template)
		metrics = &m
		score = m.Overall
	}

	if e.StrictStrongMatch && e.Phrases.StrongMatch(content) {
		return Result{
			IsTemplate:          true,
			Similarity:          score,
			Band:                BandPatternOnly,
			Reason:              "pattern-based template detection",
			ComparisonAvailable: found,
			Metrics:             metrics,
		}
	}

	if found {
		switch {
		case score > HighThreshold:
			return Result{
				IsTemplate:          true,
				Similarity:          score,
				Band:                BandHighSimilarity,
				Reason:              "high similarity to template",
				ComparisonAvailable: true,
				Metrics:             metrics,
			}
		case score > MediumThreshold:
			if e.Phrases.StrongMatch(content) || e.Phrases.WeakMatch(content) {
				return Result{
					IsTemplate:          true,
					Similarity:          score,
					Band:                BandMediumCorroborated,
					Reason:              "medium similarity + pattern match",
					ComparisonAvailable: true,
					Metrics:             metrics,
				}
			}
			// No corroboration: fall through to the pattern fallback.
		case score < LowThreshold:
			// A file this different from the template is accepted as
			// genuine without a pattern scan.
			return Result{
				Similarity:          score,
				Band:                BandLowSimilarity,
				Reason:              "low similarity to template",
				ComparisonAvailable: true,
				Metrics:             metrics,
			}
		}
	}

	return e.patternFallback(content, score, found, metrics)
}

func (e *Engine) patternFallback(content string, score float64, found bool, metrics *similarity.Metrics) Result {
	if e.Phrases.StrongMatch(content) || e.Phrases.WeakMatch(content) {
		return Result{
			IsTemplate:          true,
			Similarity:          score,
			Band:                BandPatternOnly,
			Reason:              "pattern-based template detection",
			ComparisonAvailable: found,
			Metrics:             metrics,
		}
	}

	if mdtext.CountWords(content) < shortWordLimit && e.Phrases.GenericShortContent(content) {
		return Result{
			IsTemplate:          true,
			Similarity:          score,
			Band:                BandGenericShort,
			Reason:              "generic short content",
			ComparisonAvailable: found,
			Metrics:             metrics,
		}
	}

	return Result{
		Similarity:          score,
		Band:                BandGenuine,
		Reason:              "genuine content detected",
		ComparisonAvailable: found,
		Metrics:             metrics,
	}
}
