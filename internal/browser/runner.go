package browser

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// interactLimit caps how many elements each interaction test touches per
// selector.
const interactLimit = 3

// clickSelectors are probed in order by the button click test.
var clickSelectors = []string{"button", "input[type='button']"}

// viewports exercised by the responsive design test.
var viewports = []struct{ width, height int }{
	{375, 667},
	{768, 1024},
	{1920, 1080},
}

const chartSelector = "[class*='chart'], [id*='chart'], [class*='graph'], [id*='graph']"

// Run serves the simulation under root on an ephemeral port and executes
// the smoke test plan against it. A repository without
// experiment/simulation/index.html yields a Missing report; a nil driver
// or a driver that cannot open the page downgrades the run to Skipped.
func Run(ctx context.Context, d Driver, root string) *Report {
	if !hasSimulation(root) {
		return &Report{
			Status:      StatusMissing,
			Message:     "No simulation found to test",
			TestResults: []TestResult{},
		}
	}
	if d == nil {
		return &Report{
			Status:      StatusSkipped,
			Message:     "Browser checks skipped: no browser driver available",
			TestResults: []TestResult{},
		}
	}

	url, shutdown, err := Serve(filepath.Join(root, "experiment", "simulation"))
	if err != nil {
		return &Report{
			Status:      StatusError,
			Message:     "Could not start local server",
			TestResults: []TestResult{},
		}
	}
	defer shutdown()

	page, err := d.Open(ctx, url)
	if err != nil {
		return &Report{
			Status:      StatusSkipped,
			Message:     fmt.Sprintf("Browser unavailable: %v", err),
			TestResults: []TestResult{},
		}
	}
	defer page.Close()

	results := []TestResult{
		timed("page_load", func() (string, string) { return pageLoad(page) }),
		timed("ui_elements", func() (string, string) { return uiElements(page) }),
		timed("button_clicks", func() (string, string) { return buttonClicks(page) }),
		timed("input_fields", func() (string, string) { return inputFields(page) }),
		timed("responsive_design", func() (string, string) { return responsiveDesign(page) }),
		timed("graph_display", func() (string, string) { return graphDisplay(page) }),
	}

	rep := &Report{
		Status:        StatusSuccess,
		TotalTests:    len(results),
		TestResults:   results,
		ConsoleErrors: page.ConsoleErrors(),
		PageErrors:    page.PageErrors(),
	}
	for _, r := range results {
		switch r.Status {
		case TestPass:
			rep.PassedTests++
		case TestFail:
			rep.FailedTests++
		default:
			rep.ErrorTests++
		}
	}
	if rep.TotalTests > 0 {
		rep.BrowserScore = round1(float64(rep.PassedTests) / float64(rep.TotalTests) * 10)
	}
	return rep
}

func hasSimulation(root string) bool {
	info, err := os.Stat(filepath.Join(root, "experiment", "simulation", "index.html"))
	return err == nil && info.Mode().IsRegular()
}

func timed(name string, fn func() (status, details string)) TestResult {
	start := time.Now()
	status, details := fn()
	return TestResult{
		Test:          name,
		Status:        status,
		Details:       details,
		ExecutionTime: round2(time.Since(start).Seconds()),
	}
}

func pageLoad(p Page) (string, string) {
	title, err := p.Title()
	if err != nil {
		return TestError, fmt.Sprintf("Test execution error: %v", err)
	}
	status := TestPass
	if title == "" {
		status = TestFail
	}
	return status, fmt.Sprintf("Page title: '%s'", title)
}

func uiElements(p Page) (string, string) {
	buttons, err := p.Count("button")
	if err != nil {
		return TestError, fmt.Sprintf("Test execution error: %v", err)
	}
	inputs, err := p.Count("input")
	if err != nil {
		return TestError, fmt.Sprintf("Test execution error: %v", err)
	}
	selects, err := p.Count("select")
	if err != nil {
		return TestError, fmt.Sprintf("Test execution error: %v", err)
	}
	canvas, err := p.Count("canvas")
	if err != nil {
		return TestError, fmt.Sprintf("Test execution error: %v", err)
	}

	status := TestPass
	if buttons+inputs+selects+canvas == 0 {
		status = TestFail
	}
	details := fmt.Sprintf("Found %d buttons, %d inputs, %d select elements, %d canvas elements",
		buttons, inputs, selects, canvas)
	return status, details
}

func buttonClicks(p Page) (string, string) {
	clicked := 0
	for _, sel := range clickSelectors {
		n, err := p.ClickAll(sel, interactLimit)
		if err != nil {
			return TestError, fmt.Sprintf("Interaction test error: %v", err)
		}
		clicked += n
	}
	status := TestPass
	if clicked == 0 {
		status = TestFail
	}
	return status, fmt.Sprintf("Successfully clicked %d interactive elements", clicked)
}

func inputFields(p Page) (string, string) {
	filled, err := p.FillInputs(interactLimit)
	if err != nil {
		return TestError, fmt.Sprintf("Interaction test error: %v", err)
	}
	status := TestPass
	if filled == 0 {
		status = TestFail
	}
	return status, fmt.Sprintf("Successfully interacted with %d input fields", filled)
}

func responsiveDesign(p Page) (string, string) {
	for _, v := range viewports {
		if err := p.SetViewport(v.width, v.height); err != nil {
			return TestError, fmt.Sprintf("Visual test error: %v", err)
		}
	}
	return TestPass, "Successfully tested mobile (375x667), tablet (768x1024), and desktop (1920x1080) viewports"
}

func graphDisplay(p Page) (string, string) {
	canvas, err := p.Count("canvas")
	if err != nil {
		return TestError, fmt.Sprintf("Visual test error: %v", err)
	}
	svg, err := p.Count("svg")
	if err != nil {
		return TestError, fmt.Sprintf("Visual test error: %v", err)
	}
	charts, err := p.Count(chartSelector)
	if err != nil {
		return TestError, fmt.Sprintf("Visual test error: %v", err)
	}

	status := TestPass
	if canvas+svg+charts == 0 {
		status = TestFail
	}
	return status, fmt.Sprintf("Found %d canvas, %d SVG, %d chart elements", canvas, svg, charts)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
