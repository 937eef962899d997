package structure

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const validQuiz = `{
  "version": 2.0,
  "questions": [
    {
      "question": "What is the time period of a simple pendulum?",
      "answers": {"a": "T = 2(pi)sqrt(L/g)", "b": "T = 2(pi)L/g", "c": "T = sqrt(L/g)", "d": "T = g/L"},
      "correctAnswer": "a",
      "difficulty": "beginner"
    }
  ]
}`

func writeRepoFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// scaffold lays out a fully compliant experiment repository.
func scaffold(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range requiredFiles {
		content := "content"
		if strings.HasSuffix(rel, ".json") {
			content = validQuiz
		}
		writeRepoFile(t, root, rel, content)
	}
	for _, rel := range requiredDirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCheck_FullyCompliant(t *testing.T) {
	t.Parallel()

	rep, err := Check(scaffold(t))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.ComplianceScore != 10 {
		t.Errorf("ComplianceScore = %v, want 10", rep.ComplianceScore)
	}
	if rep.Status != StatusCompliant {
		t.Errorf("Status = %q, want %q", rep.Status, StatusCompliant)
	}
	if len(rep.MissingFiles) != 0 || len(rep.MissingDirectories) != 0 || len(rep.InvalidJSONFiles) != 0 {
		t.Errorf("expected nothing missing, got files=%v dirs=%v invalid=%v",
			rep.MissingFiles, rep.MissingDirectories, rep.InvalidJSONFiles)
	}
	if len(rep.Issues) != 0 {
		t.Errorf("Issues = %v, want none", rep.Issues)
	}
	if len(rep.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want none", rep.Recommendations)
	}
	if !strings.Contains(rep.Tree, "experiment/") {
		t.Errorf("Tree should render the layout, got:\n%s", rep.Tree)
	}
}

func TestCheck_EmptyRepository(t *testing.T) {
	t.Parallel()

	rep, err := Check(t.TempDir())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.ComplianceScore != 0 {
		t.Errorf("ComplianceScore = %v, want 0", rep.ComplianceScore)
	}
	if rep.Status != StatusNonCompliant {
		t.Errorf("Status = %q, want %q", rep.Status, StatusNonCompliant)
	}
	if len(rep.MissingFiles) != len(requiredFiles) {
		t.Errorf("len(MissingFiles) = %d, want %d", len(rep.MissingFiles), len(requiredFiles))
	}
	if len(rep.MissingDirectories) != len(requiredDirs) {
		t.Errorf("len(MissingDirectories) = %d, want %d", len(rep.MissingDirectories), len(requiredDirs))
	}
	if len(rep.Issues) != len(requiredFiles)+len(requiredDirs) {
		t.Errorf("len(Issues) = %d, want %d", len(rep.Issues), len(requiredFiles)+len(requiredDirs))
	}

	// Capped at 5 files + 3 directories.
	wantRecs := []string{
		"Add missing file: LICENSE",
		"Add missing file: README.md",
		"Add missing file: experiment/aim.md",
		"Add missing file: experiment/contributors.md",
		"Add missing file: experiment/experiment-name.md",
		"Create missing directory: experiment",
		"Create missing directory: experiment/images",
		"Create missing directory: experiment/simulation",
	}
	if !slices.Equal(rep.Recommendations, wantRecs) {
		t.Errorf("Recommendations = %v, want %v", rep.Recommendations, wantRecs)
	}
}

func TestCheck_PartiallyCompliant(t *testing.T) {
	t.Parallel()

	root := scaffold(t)
	removed := []string{
		"LICENSE",
		"experiment/references.md",
		"experiment/README.md",
		"pedagogy/README.md",
		"storyboard/README.md",
	}
	for _, rel := range removed {
		if err := os.Remove(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			t.Fatal(err)
		}
	}

	rep, err := Check(root)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := 10 * (1 - 5.0/21.0)
	if math.Abs(rep.ComplianceScore-want) > 1e-9 {
		t.Errorf("ComplianceScore = %v, want %v", rep.ComplianceScore, want)
	}
	if rep.Status != StatusPartiallyCompliant {
		t.Errorf("Status = %q, want %q", rep.Status, StatusPartiallyCompliant)
	}
	if !slices.Equal(rep.MissingFiles, removed) {
		t.Errorf("MissingFiles = %v, want %v", rep.MissingFiles, removed)
	}
}

func TestCheck_StatusBands(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		remove int
		want   string
	}{
		{"four missing keeps compliant", 4, StatusCompliant},
		{"ten missing is partially compliant", 10, StatusPartiallyCompliant},
		{"eleven missing is non-compliant", 11, StatusNonCompliant},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := scaffold(t)
			for _, rel := range requiredFiles[:tc.remove] {
				if err := os.Remove(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
					t.Fatal(err)
				}
			}
			rep, err := Check(root)
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if rep.Status != tc.want {
				t.Errorf("Status = %q (score %.2f), want %q", rep.Status, rep.ComplianceScore, tc.want)
			}
		})
	}
}

func TestCheck_InvalidQuizJSON(t *testing.T) {
	t.Parallel()

	root := scaffold(t)
	writeRepoFile(t, root, "experiment/pretest.json", `{"questions": [`)

	rep, err := Check(root)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !slices.Equal(rep.InvalidJSONFiles, []string{"experiment/pretest.json"}) {
		t.Fatalf("InvalidJSONFiles = %v", rep.InvalidJSONFiles)
	}
	want := 10 * (1 - 1.0/21.0)
	if math.Abs(rep.ComplianceScore-want) > 1e-9 {
		t.Errorf("ComplianceScore = %v, want %v", rep.ComplianceScore, want)
	}
	if !slices.Contains(rep.Recommendations, "Fix invalid JSON in: experiment/pretest.json") {
		t.Errorf("Recommendations = %v, want invalid-JSON entry", rep.Recommendations)
	}
	wantIssue := Issue{Type: "file", Item: "experiment/pretest.json", Status: "Invalid JSON", Severity: SeverityMedium}
	if !slices.Contains(rep.Issues, wantIssue) {
		t.Errorf("Issues = %v, want %v", rep.Issues, wantIssue)
	}
}

func TestCheck_SchemaViolationDoesNotAffectScore(t *testing.T) {
	t.Parallel()

	root := scaffold(t)
	writeRepoFile(t, root, "experiment/posttest.json",
		`{"questions": [{"question": "Q?", "answers": {"a": "1"}}]}`)

	rep, err := Check(root)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.ComplianceScore != 10 {
		t.Errorf("ComplianceScore = %v, want 10", rep.ComplianceScore)
	}
	if len(rep.InvalidJSONFiles) != 0 {
		t.Errorf("InvalidJSONFiles = %v, want none", rep.InvalidJSONFiles)
	}
	if len(rep.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want none", rep.Recommendations)
	}
	if len(rep.Issues) != 1 {
		t.Fatalf("Issues = %v, want exactly one", rep.Issues)
	}
	issue := rep.Issues[0]
	if issue.Item != "experiment/posttest.json" || issue.Status != "Schema violation" {
		t.Errorf("issue = %+v", issue)
	}
	if issue.Severity != SeverityMedium || issue.Detail == "" {
		t.Errorf("issue = %+v, want Medium severity with detail", issue)
	}
}

func TestCheck_IssueSeverities(t *testing.T) {
	t.Parallel()

	rep, err := Check(t.TempDir())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := map[string]string{
		"LICENSE":                          SeverityMedium,
		"experiment/aim.md":                SeverityHigh,
		"experiment/pretest.json":          SeverityMedium,
		"experiment/simulation/index.html": SeverityHigh,
		"experiment":                       SeverityMedium,
		"experiment/simulation/js":         SeverityHigh,
		"storyboard":                       SeverityMedium,
	}
	for _, issue := range rep.Issues {
		if sev, ok := want[issue.Item]; ok && issue.Severity != sev {
			t.Errorf("severity for %s = %q, want %q", issue.Item, issue.Severity, sev)
		}
	}
}

func TestCheck_WrongKindCountsAsMissing(t *testing.T) {
	t.Parallel()

	root := scaffold(t)

	// aim.md as a directory, storyboard as a plain file.
	aim := filepath.Join(root, "experiment", "aim.md")
	if err := os.Remove(aim); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(aim, 0o755); err != nil {
		t.Fatal(err)
	}
	storyboard := filepath.Join(root, "storyboard")
	if err := os.RemoveAll(storyboard); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(storyboard, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep, err := Check(root)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !slices.Contains(rep.MissingFiles, "experiment/aim.md") {
		t.Errorf("MissingFiles = %v, want experiment/aim.md", rep.MissingFiles)
	}
	if !slices.Contains(rep.MissingFiles, "storyboard/README.md") {
		t.Errorf("MissingFiles = %v, want storyboard/README.md", rep.MissingFiles)
	}
	if !slices.Contains(rep.MissingDirectories, "storyboard") {
		t.Errorf("MissingDirectories = %v, want storyboard", rep.MissingDirectories)
	}
}

func TestCheck_RootMissing(t *testing.T) {
	t.Parallel()

	if _, err := Check(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("Check succeeded on a missing root")
	}
}

func TestCheck_RootNotADirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Check(path)
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("err = %v, want not-a-directory error", err)
	}
}
