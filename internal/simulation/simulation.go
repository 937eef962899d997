// Package simulation statically evaluates the web simulation bundled with
// an experiment: a census of the files under experiment/simulation, the
// third-party libraries its main HTML pulls in, and a complexity heuristic
// that stands in for scores when no simulation reviewer is available.
package simulation

import "fmt"

// Statuses reported for the simulation as a whole.
const (
	StatusAvailable = "Available"
	StatusMissing   = "Missing"
)

// Report is the simulation evaluation result for one repository.
type Report struct {
	FunctionalityScore float64  `json:"functionality_score"`
	CodeQualityScore   float64  `json:"code_quality_score"`
	UXScore            float64  `json:"ux_score"`
	EducationalValue   float64  `json:"educational_value"`
	TechnicalScore     float64  `json:"technical_score"`
	OverallScore       float64  `json:"overall_score"`
	Assessment         string   `json:"technical_assessment"`
	Status             string   `json:"simulation_status"`
	Complexity         int      `json:"complexity"`
	Libraries          []string `json:"libraries_used"`
	Files              Census   `json:"all_files"`
	FileCount          int      `json:"file_count"`
}

// Evaluate inspects the simulation under root. A simulation needs a main
// HTML page and at least one JavaScript file to count as available;
// anything less is reported as missing, with the census and complexity
// still filled in.
func Evaluate(root string) *Report {
	files := census(root)
	html, htmlOK := mainHTML(root, files)
	js := concatJS(root, files.JS)

	r := &Report{
		Status:     StatusMissing,
		Assessment: "Simulation does not exist or is incomplete",
		Complexity: complexityScore(html, js, files),
		Libraries:  detectLibraries(html),
		Files:      files,
		FileCount:  files.Total(),
	}
	if !htmlOK || len(files.JS) == 0 {
		return r
	}

	c := float64(r.Complexity)
	r.FunctionalityScore = capped(c, 8)
	r.CodeQualityScore = capped(0.8*c, 7)
	r.UXScore = capped(0.9*c, 7)
	r.EducationalValue = capped(0.9*c, 8)
	r.TechnicalScore = capped(0.8*c, 7)
	r.OverallScore = (r.FunctionalityScore + r.CodeQualityScore + r.UXScore +
		r.EducationalValue + r.TechnicalScore) / 5
	r.Status = StatusAvailable
	r.Assessment = fmt.Sprintf("Simulation appears to be of %s complexity with %d total files.",
		complexityAdjective(r.Complexity), files.Total())
	return r
}

var complexityAdjectives = []string{
	"very low", "low", "below average", "average", "above average",
	"good", "very good", "excellent", "exceptional", "outstanding",
}

func complexityAdjective(c int) string {
	if c < 1 {
		c = 1
	}
	if c > len(complexityAdjectives) {
		c = len(complexityAdjectives)
	}
	return complexityAdjectives[c-1]
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
