package output

import (
	"fmt"
	"io"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/browser"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/score"
)

// ANSI escape codes used when Color is enabled.
const (
	ansiReset  = "\033[0m"
	ansiCyan   = "\033[36m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

// TextFormatter renders a human-readable evaluation summary. When Color
// is true, the experiment name is printed in cyan and the status in a
// color matching its band.
type TextFormatter struct {
	Color bool
}

// Format writes the summary: headline score, one line per evaluated
// area, notes for degraded mode and the template penalty, and the
// recommendation list.
func (f *TextFormatter) Format(w io.Writer, r *score.Result) error {
	name := r.ExperimentName
	status := r.Status
	if f.Color {
		name = ansiCyan + name + ansiReset
		status = f.statusColor(r.Status) + status + ansiReset
	}

	if _, err := fmt.Fprintf(w, "Virtual Lab QA: %s\n", name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Final score: %.1f/100 (%s)\n\n", r.FinalScore, status); err != nil {
		return err
	}

	if s := r.Structure; s != nil {
		if _, err := fmt.Fprintf(w, "  Structure:  %4.1f/10  %s\n", s.ComplianceScore, s.Status); err != nil {
			return err
		}
	}
	if c := r.Content; c != nil {
		if _, err := fmt.Fprintf(w, "  Content:    %4.1f/10  %d/%d files evaluated, %d templates\n",
			c.AverageScore, c.EvaluatedCount, c.TotalFiles, c.TemplateCount); err != nil {
			return err
		}
	}
	if v := r.Simulation; v != nil {
		if _, err := fmt.Fprintf(w, "  Simulation: %4.1f/10  %s (complexity %d/10)\n",
			v.OverallScore, v.Status, v.Complexity); err != nil {
			return err
		}
	}
	if bw := r.Browser; bw != nil {
		if err := f.writeBrowserLine(w, bw); err != nil {
			return err
		}
	}

	if r.DegradedMode {
		if _, err := fmt.Fprintf(w, "\nNote: reference template unavailable; template detection used lexical patterns only.\n"); err != nil {
			return err
		}
	}
	if r.TemplatePenaltyApplied {
		if _, err := fmt.Fprintf(w, "\nNote: template penalty applied (%.1f%% of files are template content).\n",
			r.TemplatePercentage); err != nil {
			return err
		}
	}

	recommendations := collectRecommendations(r)
	if len(recommendations) > 0 {
		if _, err := fmt.Fprintf(w, "\nRecommendations:\n"); err != nil {
			return err
		}
		for i, rec := range recommendations {
			if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *TextFormatter) writeBrowserLine(w io.Writer, bw *browser.Report) error {
	switch bw.Status {
	case browser.StatusMissing, browser.StatusSkipped, browser.StatusError:
		_, err := fmt.Fprintf(w, "  Browser:     -      %s: %s\n", bw.Status, bw.Message)
		return err
	}
	_, err := fmt.Fprintf(w, "  Browser:    %4.1f/10  %s, %d/%d tests passed\n",
		bw.BrowserScore, bw.Status, bw.PassedTests, bw.TotalTests)
	return err
}

func (f *TextFormatter) statusColor(status string) string {
	switch status {
	case score.StatusGood:
		return ansiGreen
	case score.StatusSatisfactory:
		return ansiYellow
	default:
		return ansiRed
	}
}

func collectRecommendations(r *score.Result) []string {
	var recs []string
	if r.Structure != nil {
		recs = append(recs, r.Structure.Recommendations...)
	}
	if c := r.Content; c != nil && c.TemplateCount > 0 {
		recs = append(recs, "Replace template content with experiment-specific material")
	}
	return recs
}
