// Package structure checks an experiment repository against the expected
// Virtual Labs layout: required files and directories, quiz JSON validity,
// and a rendered tree of the actual layout for reports.
package structure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Statuses reported for the repository as a whole.
const (
	StatusCompliant          = "Compliant"
	StatusPartiallyCompliant = "Partially Compliant"
	StatusNonCompliant       = "Non-Compliant"
)

// Severities attached to individual issues.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
)

// requiredFiles and requiredDirs define the canonical experiment layout.
// The compliance score is the fraction of these present, scaled to 0-10.
var requiredFiles = []string{
	"LICENSE",
	"README.md",
	"experiment/aim.md",
	"experiment/contributors.md",
	"experiment/experiment-name.md",
	"experiment/pretest.json",
	"experiment/posttest.json",
	"experiment/procedure.md",
	"experiment/theory.md",
	"experiment/references.md",
	"experiment/README.md",
	"experiment/simulation/index.html",
	"pedagogy/README.md",
	"storyboard/README.md",
}

var requiredDirs = []string{
	"experiment",
	"experiment/images",
	"experiment/simulation",
	"experiment/simulation/css",
	"experiment/simulation/js",
	"pedagogy",
	"storyboard",
}

// Issue records one structural defect.
type Issue struct {
	Type     string `json:"type"`
	Item     string `json:"item"`
	Status   string `json:"status"`
	Severity string `json:"severity"`
	Detail   string `json:"detail,omitempty"`
}

// Report is the structure-compliance result for one repository.
type Report struct {
	ComplianceScore    float64  `json:"compliance_score"`
	MissingFiles       []string `json:"missing_files"`
	MissingDirectories []string `json:"missing_directories"`
	InvalidJSONFiles   []string `json:"invalid_json_files"`
	Status             string   `json:"structure_status"`
	Recommendations    []string `json:"recommendations"`
	Issues             []Issue  `json:"issues"`

	// Tree is the rendered repository layout. It feeds the markdown
	// report only, so it stays out of the JSON artifact.
	Tree string `json:"-"`
}

// Check inspects the repository rooted at root and reports how closely it
// follows the expected layout. Missing files, missing directories and
// malformed quiz JSON all lower the compliance score; quiz files that parse
// but do not match the expected shape are reported as issues without
// affecting the score.
func Check(root string) (*Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("structure check: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("structure check: %s is not a directory", root)
	}

	missingFiles := make([]string, 0, len(requiredFiles))
	for _, rel := range requiredFiles {
		fi, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil || !fi.Mode().IsRegular() {
			missingFiles = append(missingFiles, rel)
		}
	}

	missingDirs := make([]string, 0, len(requiredDirs))
	for _, rel := range requiredDirs {
		fi, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil || !fi.IsDir() {
			missingDirs = append(missingDirs, rel)
		}
	}

	invalid, violations := checkQuizzes(root)

	total := len(requiredFiles) + len(requiredDirs)
	missing := len(missingFiles) + len(missingDirs) + len(invalid)
	score := clamp(10*(1-float64(missing)/float64(total)), 0, 10)

	return &Report{
		ComplianceScore:    score,
		MissingFiles:       missingFiles,
		MissingDirectories: missingDirs,
		InvalidJSONFiles:   invalid,
		Status:             statusFor(score),
		Recommendations:    recommendations(missingFiles, missingDirs, invalid),
		Issues:             issues(missingFiles, missingDirs, invalid, violations),
		Tree:               Tree(root, DefaultTreeDepth),
	}, nil
}

func statusFor(score float64) string {
	switch {
	case score >= 8:
		return StatusCompliant
	case score >= 5:
		return StatusPartiallyCompliant
	default:
		return StatusNonCompliant
	}
}

// recommendations lists at most the first 5 missing files and 3 missing
// directories; invalid JSON is always listed.
func recommendations(missingFiles, missingDirs, invalid []string) []string {
	recs := make([]string, 0, 8+len(invalid))
	for _, f := range head(missingFiles, 5) {
		recs = append(recs, "Add missing file: "+f)
	}
	for _, d := range head(missingDirs, 3) {
		recs = append(recs, "Create missing directory: "+d)
	}
	for _, f := range invalid {
		recs = append(recs, "Fix invalid JSON in: "+f)
	}
	return recs
}

func issues(missingFiles, missingDirs, invalid []string, violations []quizViolation) []Issue {
	out := make([]Issue, 0, len(missingFiles)+len(missingDirs)+len(invalid)+len(violations))
	for _, f := range missingFiles {
		out = append(out, Issue{Type: "file", Item: f, Status: "Missing", Severity: fileSeverity(f)})
	}
	for _, d := range missingDirs {
		out = append(out, Issue{Type: "directory", Item: d, Status: "Missing", Severity: dirSeverity(d)})
	}
	for _, f := range invalid {
		out = append(out, Issue{Type: "file", Item: f, Status: "Invalid JSON", Severity: SeverityMedium})
	}
	for _, v := range violations {
		out = append(out, Issue{
			Type:     "file",
			Item:     v.Path,
			Status:   "Schema violation",
			Severity: SeverityMedium,
			Detail:   v.Detail,
		})
	}
	return out
}

// Missing simulation assets and markdown content rate High, everything
// else Medium.
func fileSeverity(rel string) string {
	if strings.Contains(rel, "simulation") || strings.HasSuffix(rel, ".md") {
		return SeverityHigh
	}
	return SeverityMedium
}

func dirSeverity(rel string) string {
	if strings.Contains(rel, "simulation") {
		return SeverityHigh
	}
	return SeverityMedium
}

func head(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
