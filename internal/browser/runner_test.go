package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakePage struct {
	title     string
	titleErr  error
	counts    map[string]int
	clicks    map[string]int
	clickErr  error
	filled    int
	fillErr   error
	viewErr   error
	console   []string
	exception []string

	viewports []string
	closed    bool
}

func (p *fakePage) Title() (string, error) { return p.title, p.titleErr }

func (p *fakePage) Count(selector string) (int, error) { return p.counts[selector], nil }

func (p *fakePage) ClickAll(selector string, limit int) (int, error) {
	if p.clickErr != nil {
		return 0, p.clickErr
	}
	n := p.clicks[selector]
	if n > limit {
		n = limit
	}
	return n, nil
}

func (p *fakePage) FillInputs(limit int) (int, error) {
	if p.fillErr != nil {
		return 0, p.fillErr
	}
	if p.filled > limit {
		return limit, nil
	}
	return p.filled, nil
}

func (p *fakePage) SetViewport(width, height int) error {
	if p.viewErr != nil {
		return p.viewErr
	}
	p.viewports = append(p.viewports, fmt.Sprintf("%dx%d", width, height))
	return nil
}

func (p *fakePage) ConsoleErrors() []string { return p.console }

func (p *fakePage) PageErrors() []string { return p.exception }

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

type fakeDriver struct {
	page    *fakePage
	openErr error
	gotURL  string
	closed  bool
}

func (d *fakeDriver) Open(ctx context.Context, url string) (Page, error) {
	d.gotURL = url
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.page, nil
}

func (d *fakeDriver) Close() error {
	d.closed = true
	return nil
}

// simRepo lays out a repository with a minimal simulation page.
func simRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "experiment", "simulation")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	page := "<!doctype html><title>Sim</title><canvas></canvas>"
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestRun_MissingSimulation(t *testing.T) {
	t.Parallel()

	rep := Run(context.Background(), &fakeDriver{page: &fakePage{}}, t.TempDir())
	if rep.Status != StatusMissing {
		t.Fatalf("Status = %q, want %q", rep.Status, StatusMissing)
	}
	if rep.Message != "No simulation found to test" {
		t.Errorf("Message = %q", rep.Message)
	}
	if rep.BrowserScore != 0 || rep.TotalTests != 0 {
		t.Errorf("score %v total %d, want zeros", rep.BrowserScore, rep.TotalTests)
	}
	if rep.TestResults == nil || len(rep.TestResults) != 0 {
		t.Errorf("TestResults = %v, want empty slice", rep.TestResults)
	}
}

func TestRun_NilDriverSkips(t *testing.T) {
	t.Parallel()

	rep := Run(context.Background(), nil, simRepo(t))
	if rep.Status != StatusSkipped {
		t.Fatalf("Status = %q, want %q", rep.Status, StatusSkipped)
	}
	if rep.Message == "" {
		t.Error("expected a skip message")
	}
}

func TestRun_OpenErrorSkips(t *testing.T) {
	t.Parallel()

	d := &fakeDriver{openErr: errors.New("no chrome binary")}
	rep := Run(context.Background(), d, simRepo(t))
	if rep.Status != StatusSkipped {
		t.Fatalf("Status = %q, want %q", rep.Status, StatusSkipped)
	}
	if !strings.Contains(rep.Message, "Browser unavailable") || !strings.Contains(rep.Message, "no chrome binary") {
		t.Errorf("Message = %q", rep.Message)
	}
}

func TestRun_AllTestsPass(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		title: "Pendulum Lab",
		counts: map[string]int{
			"button":      2,
			"input":       3,
			"select":      1,
			"canvas":      1,
			chartSelector: 2,
		},
		clicks: map[string]int{"button": 2},
		filled: 3,
	}
	d := &fakeDriver{page: page}

	rep := Run(context.Background(), d, simRepo(t))
	if rep.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q", rep.Status, StatusSuccess)
	}
	if rep.TotalTests != 6 || rep.PassedTests != 6 || rep.FailedTests != 0 || rep.ErrorTests != 0 {
		t.Fatalf("counts = %d/%d/%d/%d", rep.TotalTests, rep.PassedTests, rep.FailedTests, rep.ErrorTests)
	}
	if rep.BrowserScore != 10 {
		t.Errorf("BrowserScore = %v, want 10", rep.BrowserScore)
	}

	wantNames := []string{"page_load", "ui_elements", "button_clicks", "input_fields", "responsive_design", "graph_display"}
	wantDetails := []string{
		"Page title: 'Pendulum Lab'",
		"Found 2 buttons, 3 inputs, 1 select elements, 1 canvas elements",
		"Successfully clicked 2 interactive elements",
		"Successfully interacted with 3 input fields",
		"Successfully tested mobile (375x667), tablet (768x1024), and desktop (1920x1080) viewports",
		"Found 1 canvas, 0 SVG, 2 chart elements",
	}
	if len(rep.TestResults) != len(wantNames) {
		t.Fatalf("got %d results", len(rep.TestResults))
	}
	for i, r := range rep.TestResults {
		if r.Test != wantNames[i] {
			t.Errorf("result %d test = %q, want %q", i, r.Test, wantNames[i])
		}
		if r.Status != TestPass {
			t.Errorf("%s status = %q", r.Test, r.Status)
		}
		if r.Details != wantDetails[i] {
			t.Errorf("%s details = %q, want %q", r.Test, r.Details, wantDetails[i])
		}
		if r.ExecutionTime < 0 {
			t.Errorf("%s execution time = %v", r.Test, r.ExecutionTime)
		}
	}

	wantViewports := []string{"375x667", "768x1024", "1920x1080"}
	if fmt.Sprint(page.viewports) != fmt.Sprint(wantViewports) {
		t.Errorf("viewports = %v, want %v", page.viewports, wantViewports)
	}
	if !strings.HasPrefix(d.gotURL, "http://127.0.0.1:") {
		t.Errorf("opened URL = %q", d.gotURL)
	}
	if !page.closed {
		t.Error("page was not closed")
	}
}

func TestRun_FailuresAndErrors(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		title:   "",
		counts:  map[string]int{},
		fillErr: errors.New("boom"),
		viewErr: errors.New("viewport gone"),
	}
	rep := Run(context.Background(), &fakeDriver{page: page}, simRepo(t))

	if rep.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q", rep.Status, StatusSuccess)
	}
	if rep.PassedTests != 0 || rep.FailedTests != 4 || rep.ErrorTests != 2 {
		t.Fatalf("counts = %d/%d/%d", rep.PassedTests, rep.FailedTests, rep.ErrorTests)
	}
	if rep.BrowserScore != 0 {
		t.Errorf("BrowserScore = %v, want 0", rep.BrowserScore)
	}

	byName := make(map[string]TestResult, len(rep.TestResults))
	for _, r := range rep.TestResults {
		byName[r.Test] = r
	}
	if got := byName["input_fields"]; got.Status != TestError || got.Details != "Interaction test error: boom" {
		t.Errorf("input_fields = %+v", got)
	}
	if got := byName["responsive_design"]; got.Status != TestError || got.Details != "Visual test error: viewport gone" {
		t.Errorf("responsive_design = %+v", got)
	}
	if got := byName["page_load"]; got.Status != TestFail {
		t.Errorf("page_load = %+v", got)
	}
}

func TestRun_ScoreRounding(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		title:  "Sim",
		counts: map[string]int{"button": 1},
		clicks: map[string]int{"button": 1},
	}
	rep := Run(context.Background(), &fakeDriver{page: page}, simRepo(t))

	// 4 of 6 tests pass: input_fields and graph_display fail.
	if rep.PassedTests != 4 || rep.FailedTests != 2 {
		t.Fatalf("counts = %d passed, %d failed", rep.PassedTests, rep.FailedTests)
	}
	if rep.BrowserScore != 6.7 {
		t.Errorf("BrowserScore = %v, want 6.7", rep.BrowserScore)
	}
}

func TestRun_ClickLimitApplied(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		title:  "Sim",
		counts: map[string]int{"button": 9},
		clicks: map[string]int{"button": 9, "input[type='button']": 9},
	}
	rep := Run(context.Background(), &fakeDriver{page: page}, simRepo(t))

	byName := make(map[string]TestResult, len(rep.TestResults))
	for _, r := range rep.TestResults {
		byName[r.Test] = r
	}
	// 3 per selector across the two click selectors.
	if got := byName["button_clicks"]; got.Details != "Successfully clicked 6 interactive elements" {
		t.Errorf("button_clicks details = %q", got.Details)
	}
}

func TestRun_CollectsPageDiagnostics(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		title:     "Sim",
		counts:    map[string]int{"canvas": 1},
		console:   []string{"TypeError: undefined is not a function"},
		exception: []string{"Uncaught ReferenceError: draw is not defined"},
	}
	rep := Run(context.Background(), &fakeDriver{page: page}, simRepo(t))

	if len(rep.ConsoleErrors) != 1 || rep.ConsoleErrors[0] != page.console[0] {
		t.Errorf("ConsoleErrors = %v", rep.ConsoleErrors)
	}
	if len(rep.PageErrors) != 1 || rep.PageErrors[0] != page.exception[0] {
		t.Errorf("PageErrors = %v", rep.PageErrors)
	}
}

func TestServe(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	url, shutdown, err := Serve(dir)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}

	resp, err := http.Get(url + "/index.html")
	if err != nil {
		t.Fatalf("GET index.html: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if string(body) != "<p>hi</p>" {
		t.Errorf("body = %q", body)
	}

	missing, err := http.Get(url + "/nope.html")
	if err != nil {
		t.Fatalf("GET nope.html: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("missing file status = %d", missing.StatusCode)
	}

	shutdown()
	if _, err := http.Get(url + "/index.html"); err == nil {
		t.Error("expected request to fail after shutdown")
	}
}
