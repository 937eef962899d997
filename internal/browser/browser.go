// Package browser runs optional smoke checks against a served simulation
// in a headless browser. The checks are a fixed plan of six tests; the
// browser itself sits behind the Driver interface so the runner can be
// exercised without Chrome installed.
package browser

import "context"

// Overall run statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
	StatusMissing = "MISSING"
	StatusSkipped = "SKIPPED"
)

// Per-test outcomes.
const (
	TestPass  = "PASS"
	TestFail  = "FAIL"
	TestError = "ERROR"
)

// TestResult is the outcome of a single smoke test.
type TestResult struct {
	Test          string  `json:"test"`
	Status        string  `json:"status"`
	Details       string  `json:"details"`
	ExecutionTime float64 `json:"execution_time"`
}

// Report summarises a browser smoke run over one simulation.
type Report struct {
	BrowserScore  float64      `json:"browser_score"`
	Status        string       `json:"status"`
	Message       string       `json:"message,omitempty"`
	TotalTests    int          `json:"total_tests"`
	PassedTests   int          `json:"passed_tests"`
	FailedTests   int          `json:"failed_tests"`
	ErrorTests    int          `json:"error_tests"`
	TestResults   []TestResult `json:"test_results"`
	ConsoleErrors []string     `json:"console_errors,omitempty"`
	PageErrors    []string     `json:"page_errors,omitempty"`
}

// Driver opens pages in a browser. Open navigates to url and blocks until
// the page has loaded.
type Driver interface {
	Open(ctx context.Context, url string) (Page, error)
	Close() error
}

// Page is the slice of page behaviour the smoke tests need.
type Page interface {
	Title() (string, error)
	Count(selector string) (int, error)
	ClickAll(selector string, limit int) (int, error)
	FillInputs(limit int) (int, error)
	SetViewport(width, height int) error
	ConsoleErrors() []string
	PageErrors() []string
	Close() error
}
