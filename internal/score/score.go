// Package score folds the per-area reports into the final 0-100 quality
// score and assembles the markdown quality report.
package score

import (
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/browser"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/config"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/content"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/gitrepo"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/simulation"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/structure"
)

// Final score status bands.
const (
	StatusGood             = "Good"
	StatusSatisfactory     = "Satisfactory"
	StatusNeedsImprovement = "Needs Improvement"
)

// templatePenaltyCutoff is the template percentage above which the
// content score is penalized.
const templatePenaltyCutoff = 50.0

// Inputs bundles the per-area reports feeding the final score. Nil
// reports count as zero.
type Inputs struct {
	Repository gitrepo.Metadata
	Structure  *structure.Report
	Content    *content.Report
	Simulation *simulation.Report
	Browser    *browser.Report

	// CorpusDegraded records that the reference template corpus could not
	// be built and template detection ran on lexical patterns alone.
	CorpusDegraded bool
}

// ComponentScores are the per-area scores on the 0-100 scale.
type ComponentScores struct {
	Structure  float64 `json:"structure"`
	Content    float64 `json:"content"`
	Simulation float64 `json:"simulation"`
}

// Result carries the aggregate outcome plus the per-area reports, which
// is everything the JSON artifact and the formatters need.
type Result struct {
	FinalScore             float64         `json:"final_score"`
	Status                 string          `json:"status"`
	ComponentScores        ComponentScores `json:"component_scores"`
	ExperimentName         string          `json:"experiment_name"`
	TemplatePercentage     float64         `json:"template_percentage"`
	TemplatePenaltyApplied bool            `json:"template_penalty_applied"`
	DegradedMode           bool            `json:"degraded_mode"`
	Report                 string          `json:"report"`

	Repository gitrepo.Metadata   `json:"repository"`
	Structure  *structure.Report  `json:"structure,omitempty"`
	Content    *content.Report    `json:"content,omitempty"`
	Simulation *simulation.Report `json:"simulation,omitempty"`
	Browser    *browser.Report    `json:"browser,omitempty"`
}

// Calculate produces the weighted final score and the markdown report.
// Weights are normalized before use; the content score is reduced by the
// template penalty when more than half of the evaluated files are
// templates.
func Calculate(in Inputs, w config.Weights, th config.Thresholds) *Result {
	var structureScore float64
	if in.Structure != nil {
		structureScore = in.Structure.ComplianceScore
	}

	var contentScore, templatePct float64
	if in.Content != nil {
		contentScore = in.Content.AverageScore
		templatePct = in.Content.TemplatePercentage
	}

	var simulationScore float64
	if in.Simulation != nil {
		simulationScore = in.Simulation.OverallScore
	}

	penalized := false
	if templatePct > templatePenaltyCutoff && th.TemplatePenalty > 0 {
		contentScore *= 1 - th.TemplatePenalty
		penalized = true
	}

	sw, cw, vw := normalize(w)
	final := (structureScore*sw + contentScore*cw + simulationScore*vw) * 10

	res := &Result{
		FinalScore: final,
		Status:     statusFor(final, th),
		ComponentScores: ComponentScores{
			Structure:  structureScore * 10,
			Content:    contentScore * 10,
			Simulation: simulationScore * 10,
		},
		ExperimentName:         experimentName(in),
		TemplatePercentage:     templatePct,
		TemplatePenaltyApplied: penalized,
		DegradedMode:           in.CorpusDegraded,
		Repository:             in.Repository,
		Structure:              in.Structure,
		Content:                in.Content,
		Simulation:             in.Simulation,
		Browser:                in.Browser,
	}
	res.Report = buildReport(res)
	return res
}

func normalize(w config.Weights) (structure, content, simulation float64) {
	sum := w.Structure + w.Content + w.Simulation
	if sum <= 0 {
		d := config.Defaults().Weights
		return d.Structure, d.Content, d.Simulation
	}
	return w.Structure / sum, w.Content / sum, w.Simulation / sum
}

func statusFor(final float64, th config.Thresholds) string {
	switch {
	case final >= th.GoodScore*10:
		return StatusGood
	case final >= th.SatisfactoryScore*10:
		return StatusSatisfactory
	default:
		return StatusNeedsImprovement
	}
}

func experimentName(in Inputs) string {
	if in.Repository.ExperimentName != "" {
		return in.Repository.ExperimentName
	}
	return "Unknown Experiment"
}
