package score

import (
	"fmt"
	"strings"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/browser"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/content"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/simulation"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/structure"
)

// buildReport renders the markdown quality report. Every line derives
// from the per-area reports, so the same evaluation always produces the
// same report.
func buildReport(r *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Virtual Lab Quality Report: %s\n\n", r.ExperimentName)

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b,
		"The experiment %q scores **%.1f/100** (%s): structure %.1f/100, content %.1f/100, simulation %.1f/100.\n\n",
		r.ExperimentName, r.FinalScore, r.Status,
		r.ComponentScores.Structure, r.ComponentScores.Content, r.ComponentScores.Simulation)
	if r.DegradedMode {
		b.WriteString("The reference template could not be fetched, so template detection relied on lexical patterns only.\n\n")
	}

	writeStrengths(&b, r)
	writeImprovements(&b, r)

	b.WriteString("## Detailed Assessment\n\n")
	writeStructureSection(&b, r.Structure)
	writeContentSection(&b, r)
	writeSimulationSection(&b, r.Simulation)
	if r.Browser != nil {
		writeBrowserSection(&b, r.Browser)
	}

	writeRecommendations(&b, r)

	b.WriteString("## Conclusion\n\n")
	fmt.Fprintf(&b, "The experiment is rated %s with a final score of %.1f/100.\n",
		r.Status, r.FinalScore)
	return b.String()
}

func writeStrengths(b *strings.Builder, r *Result) {
	b.WriteString("## Strengths\n\n")
	var items []string
	if s := r.Structure; s != nil && s.Status == structure.StatusCompliant {
		items = append(items, "Repository structure follows the Virtual Labs layout")
	}
	if c := r.Content; c != nil && c.EvaluatedCount > 0 && c.TemplateCount == 0 {
		items = append(items, "Content files are customized for this experiment rather than template boilerplate")
	}
	if v := r.Simulation; v != nil && v.Status == simulation.StatusAvailable {
		items = append(items, fmt.Sprintf("Simulation is present with %d files", v.FileCount))
		if len(v.Libraries) > 0 {
			items = append(items, "Simulation builds on "+strings.Join(v.Libraries, ", "))
		}
	}
	if bw := r.Browser; bw != nil && bw.Status == browser.StatusSuccess &&
		bw.TotalTests > 0 && bw.PassedTests == bw.TotalTests {
		items = append(items, "All browser smoke tests passed")
	}
	if len(items) == 0 {
		items = append(items, "None identified by the automated evaluation")
	}
	writeBullets(b, items)
}

func writeImprovements(b *strings.Builder, r *Result) {
	b.WriteString("## Areas for Improvement\n\n")
	var items []string
	if s := r.Structure; s != nil {
		if len(s.MissingFiles) > 0 {
			items = append(items, "Missing files: "+clipList(s.MissingFiles, 5))
		}
		if len(s.MissingDirectories) > 0 {
			items = append(items, "Missing directories: "+clipList(s.MissingDirectories, 3))
		}
		if len(s.InvalidJSONFiles) > 0 {
			items = append(items, "Invalid quiz JSON: "+strings.Join(s.InvalidJSONFiles, ", "))
		}
	}
	if c := r.Content; c != nil && c.TemplateCount > 0 {
		items = append(items, fmt.Sprintf("%d of %d content files appear to be unmodified template content",
			c.TemplateCount, c.EvaluatedCount))
	}
	if v := r.Simulation; v != nil && v.Status == simulation.StatusMissing {
		items = append(items, "Simulation is missing or incomplete")
	}
	if bw := r.Browser; bw != nil && bw.FailedTests+bw.ErrorTests > 0 {
		items = append(items, fmt.Sprintf("%d browser smoke tests did not pass", bw.FailedTests+bw.ErrorTests))
	}
	if len(items) == 0 {
		items = append(items, "No major issues found")
	}
	writeBullets(b, items)
}

func writeStructureSection(b *strings.Builder, s *structure.Report) {
	b.WriteString("### 1. Structure Evaluation\n\n")
	if s == nil {
		b.WriteString("Structure was not evaluated.\n\n")
		return
	}
	fmt.Fprintf(b, "Compliance score: %.1f/10 (%s)\n\n", s.ComplianceScore, s.Status)
	if len(s.MissingFiles)+len(s.MissingDirectories)+len(s.InvalidJSONFiles) == 0 {
		b.WriteString("All required files and directories are present.\n\n")
	} else {
		for _, f := range s.MissingFiles {
			fmt.Fprintf(b, "- Missing file: %s\n", f)
		}
		for _, d := range s.MissingDirectories {
			fmt.Fprintf(b, "- Missing directory: %s\n", d)
		}
		for _, f := range s.InvalidJSONFiles {
			fmt.Fprintf(b, "- Invalid JSON: %s\n", f)
		}
		b.WriteString("\n")
	}
	if s.Tree != "" {
		b.WriteString("Repository layout:\n\n```\n")
		b.WriteString(s.Tree)
		b.WriteString("```\n\n")
	}
}

func writeContentSection(b *strings.Builder, r *Result) {
	b.WriteString("### 2. Content Evaluation\n\n")
	c := r.Content
	if c == nil || c.TotalFiles == 0 {
		b.WriteString("No content files were found to evaluate.\n\n")
		return
	}
	fmt.Fprintf(b, "Content score: %.1f/10 (%d/%d files evaluated, %d templates, %.1f%%)\n\n",
		c.AverageScore, c.EvaluatedCount, c.TotalFiles, c.TemplateCount, c.TemplatePercentage)
	if r.TemplatePenaltyApplied {
		b.WriteString("A template penalty was applied: more than half of the evaluated files are unmodified template content.\n\n")
	}

	b.WriteString("| File | Status | Score | Template |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, f := range c.Files {
		score, template := fmt.Sprintf("%.1f", f.AverageScore), "No"
		if f.IsTemplate {
			template = "Yes"
		}
		if f.Status != content.StatusEvaluated {
			score, template = "-", "-"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", f.File, f.Status, score, template)
	}
	b.WriteString("\n")
}

func writeSimulationSection(b *strings.Builder, v *simulation.Report) {
	b.WriteString("### 3. Simulation Evaluation\n\n")
	if v == nil {
		b.WriteString("Simulation was not evaluated.\n\n")
		return
	}
	fmt.Fprintf(b, "Simulation score: %.1f/10 (%s, complexity %d/10)\n\n",
		v.OverallScore, v.Status, v.Complexity)
	libraries := "None detected"
	if len(v.Libraries) > 0 {
		libraries = strings.Join(v.Libraries, ", ")
	}
	fmt.Fprintf(b, "Libraries: %s\n\n", libraries)
	fmt.Fprintf(b, "%s\n\n", v.Assessment)
}

func writeBrowserSection(b *strings.Builder, bw *browser.Report) {
	b.WriteString("### 4. Browser Checks\n\n")
	switch bw.Status {
	case browser.StatusMissing, browser.StatusSkipped, browser.StatusError:
		fmt.Fprintf(b, "%s: %s\n\n", bw.Status, bw.Message)
		return
	}
	fmt.Fprintf(b, "Browser score: %.1f/10 (%d passed, %d failed, %d errors)\n\n",
		bw.BrowserScore, bw.PassedTests, bw.FailedTests, bw.ErrorTests)
	for _, t := range bw.TestResults {
		fmt.Fprintf(b, "- %s: %s (%s)\n", t.Test, t.Status, t.Details)
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, r *Result) {
	b.WriteString("## Recommendations\n\n")
	var items []string
	if s := r.Structure; s != nil {
		items = append(items, s.Recommendations...)
	}
	if c := r.Content; c != nil && c.TemplateCount > 0 {
		items = append(items, "Replace template content with experiment-specific material")
	}
	if v := r.Simulation; v != nil && v.Status == simulation.StatusMissing {
		items = append(items, "Complete the simulation implementation under experiment/simulation")
	}
	if len(items) == 0 {
		items = append(items, "No action required; keep the experiment up to date")
	}
	for i, it := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, it)
	}
	b.WriteString("\n")
}

func writeBullets(b *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

// clipList joins at most n entries, noting how many were left out.
func clipList(list []string, n int) string {
	if len(list) <= n {
		return strings.Join(list, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(list[:n], ", "), len(list)-n)
}
