package simulation

import (
	"math"
	"strings"
	"testing"
)

func TestEvaluate_MissingSimulation(t *testing.T) {
	t.Parallel()

	r := Evaluate(t.TempDir())
	if r.Status != StatusMissing {
		t.Errorf("Status = %q, want %q", r.Status, StatusMissing)
	}
	if r.OverallScore != 0 || r.FunctionalityScore != 0 || r.TechnicalScore != 0 {
		t.Errorf("scores = %+v, want all zero", r)
	}
	if r.Assessment != "Simulation does not exist or is incomplete" {
		t.Errorf("Assessment = %q", r.Assessment)
	}
	if r.FileCount != 0 || r.Complexity != 0 {
		t.Errorf("FileCount = %d, Complexity = %d, want 0, 0", r.FileCount, r.Complexity)
	}
	if len(r.Libraries) != 0 {
		t.Errorf("Libraries = %v, want none", r.Libraries)
	}
}

func TestEvaluate_HTMLWithoutJSIsMissing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSimFile(t, root, "experiment/simulation/index.html",
		[]byte("<html><body><canvas></canvas></body></html>"))

	r := Evaluate(root)
	if r.Status != StatusMissing {
		t.Errorf("Status = %q, want %q", r.Status, StatusMissing)
	}
	if r.OverallScore != 0 {
		t.Errorf("OverallScore = %v, want 0", r.OverallScore)
	}
	// Census and complexity are still reported for a missing simulation.
	if r.FileCount != 1 {
		t.Errorf("FileCount = %d, want 1", r.FileCount)
	}
	if r.Complexity != 3 {
		t.Errorf("Complexity = %d, want 3", r.Complexity)
	}
}

func TestEvaluate_AvailableSimulation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSimFile(t, root, "experiment/simulation/index.html",
		[]byte("<html><body><canvas id='view'></canvas></body></html>"))
	writeSimFile(t, root, "experiment/simulation/js/main.js",
		[]byte("function step() { render(); }"))

	r := Evaluate(root)
	if r.Status != StatusAvailable {
		t.Fatalf("Status = %q, want %q", r.Status, StatusAvailable)
	}
	// canvas +2, named function +1, two file types +1 on the base of 1.
	if r.Complexity != 5 {
		t.Fatalf("Complexity = %d, want 5", r.Complexity)
	}
	want := map[string]float64{
		"functionality": 5,
		"code quality":  4,
		"ux":            4.5,
		"educational":   4.5,
		"technical":     4,
		"overall":       4.4,
	}
	got := map[string]float64{
		"functionality": r.FunctionalityScore,
		"code quality":  r.CodeQualityScore,
		"ux":            r.UXScore,
		"educational":   r.EducationalValue,
		"technical":     r.TechnicalScore,
		"overall":       r.OverallScore,
	}
	for name, w := range want {
		if math.Abs(got[name]-w) > 1e-9 {
			t.Errorf("%s = %v, want %v", name, got[name], w)
		}
	}
	if r.Assessment != "Simulation appears to be of above average complexity with 2 total files." {
		t.Errorf("Assessment = %q", r.Assessment)
	}
	if r.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", r.FileCount)
	}
}

func TestEvaluate_ScoreCaps(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	html := strings.Repeat("<div class='x'>", 100) + "<canvas><svg>webgl"
	js := strings.Repeat("function f() {} addEventListener setInterval fetch ", 120)
	writeSimFile(t, root, "experiment/simulation/index.html", []byte(html))
	writeSimFile(t, root, "experiment/simulation/js/main.js", []byte(js))
	writeSimFile(t, root, "experiment/simulation/config.json", []byte("{}"))

	r := Evaluate(root)
	if r.Complexity != 10 {
		t.Fatalf("Complexity = %d, want 10", r.Complexity)
	}
	if r.FunctionalityScore != 8 {
		t.Errorf("FunctionalityScore = %v, want cap 8", r.FunctionalityScore)
	}
	if r.CodeQualityScore != 7 || r.TechnicalScore != 7 {
		t.Errorf("CodeQualityScore = %v, TechnicalScore = %v, want cap 7",
			r.CodeQualityScore, r.TechnicalScore)
	}
	if r.UXScore != 7 {
		t.Errorf("UXScore = %v, want cap 7", r.UXScore)
	}
	if r.EducationalValue != 8 {
		t.Errorf("EducationalValue = %v, want cap 8", r.EducationalValue)
	}
	if !strings.Contains(r.Assessment, "outstanding complexity") {
		t.Errorf("Assessment = %q", r.Assessment)
	}
}

func TestEvaluate_FallbackPageCountsAsAvailable(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSimFile(t, root, "experiment/simulation/pages/sim.html", []byte("<p>sim</p>"))
	writeSimFile(t, root, "experiment/simulation/js/app.js", []byte("var ready = true;"))

	r := Evaluate(root)
	if r.Status != StatusAvailable {
		t.Errorf("Status = %q, want %q", r.Status, StatusAvailable)
	}
}
