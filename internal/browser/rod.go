package browser

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultTimeout bounds navigation and page readiness in ChromeDriver.
const DefaultTimeout = 30 * time.Second

// ChromeDriver drives a locally launched headless Chrome over CDP.
type ChromeDriver struct {
	browser *rod.Browser
	timeout time.Duration
}

// NewChromeDriver launches a headless Chrome and connects to it. The
// caller owns the driver and must Close it.
func NewChromeDriver(ctx context.Context, timeout time.Duration) (*ChromeDriver, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return &ChromeDriver{browser: b, timeout: timeout}, nil
}

// RunWithChrome launches a headless Chrome for the duration of one smoke
// run. Launch failures downgrade the report to Skipped so an evaluation
// can finish on hosts without a browser installed.
func RunWithChrome(ctx context.Context, root string, timeout time.Duration) *Report {
	if !hasSimulation(root) {
		return &Report{
			Status:      StatusMissing,
			Message:     "No simulation found to test",
			TestResults: []TestResult{},
		}
	}
	d, err := NewChromeDriver(ctx, timeout)
	if err != nil {
		return &Report{
			Status:      StatusSkipped,
			Message:     fmt.Sprintf("Browser unavailable: %v", err),
			TestResults: []TestResult{},
		}
	}
	defer d.Close()
	return Run(ctx, d, root)
}

// Open creates a page, starts event collection, and navigates to url.
func (d *ChromeDriver) Open(ctx context.Context, url string) (Page, error) {
	page, err := d.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	pctx, cancel := context.WithCancel(ctx)
	cp := &chromePage{page: page.Context(pctx), cancel: cancel}
	cp.watchEvents()

	nav := cp.page.Timeout(d.timeout)
	if err := nav.Navigate(url); err != nil {
		cp.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := nav.WaitLoad(); err != nil {
		cp.Close()
		return nil, fmt.Errorf("wait load: %w", err)
	}
	return cp, nil
}

func (d *ChromeDriver) Close() error {
	return d.browser.Close()
}

type chromePage struct {
	page   *rod.Page
	cancel context.CancelFunc

	mu            sync.Mutex
	consoleErrors []string
	pageErrors    []string
}

// watchEvents streams console error and uncaught exception events into
// the page record until the page context is cancelled.
func (p *chromePage) watchEvents() {
	wait := p.page.EachEvent(
		func(ev *proto.RuntimeConsoleAPICalled) {
			if ev.Type != proto.RuntimeConsoleAPICalledTypeError {
				return
			}
			p.mu.Lock()
			p.consoleErrors = append(p.consoleErrors, consoleMessage(ev.Args))
			p.mu.Unlock()
		},
		func(ev *proto.RuntimeExceptionThrown) {
			text := ev.ExceptionDetails.Text
			if exc := ev.ExceptionDetails.Exception; exc != nil && exc.Description != "" {
				text = exc.Description
			}
			p.mu.Lock()
			p.pageErrors = append(p.pageErrors, text)
			p.mu.Unlock()
		},
	)
	go wait()
}

func (p *chromePage) Title() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (p *chromePage) Count(selector string) (int, error) {
	els, err := p.page.Elements(selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// ClickAll clicks up to limit visible elements matching selector.
// Per-element click failures are skipped, not fatal.
func (p *chromePage) ClickAll(selector string, limit int) (int, error) {
	els, err := p.page.Elements(selector)
	if err != nil {
		return 0, err
	}
	if len(els) > limit {
		els = els[:limit]
	}
	clicked := 0
	for _, el := range els {
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
			clicked++
		}
	}
	return clicked, nil
}

// FillInputs interacts with up to limit visible input elements, choosing
// the interaction by input type: text-like fields receive "test123",
// ranges "50", everything else is clicked.
func (p *chromePage) FillInputs(limit int) (int, error) {
	els, err := p.page.Elements("input")
	if err != nil {
		return 0, err
	}
	if len(els) > limit {
		els = els[:limit]
	}
	filled := 0
	for _, el := range els {
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		typ := ""
		if attr, err := el.Attribute("type"); err == nil && attr != nil {
			typ = strings.ToLower(*attr)
		}
		var actErr error
		switch typ {
		case "text", "number", "email", "password":
			actErr = el.Input("test123")
		case "range":
			actErr = el.Input("50")
		default:
			actErr = el.Click(proto.InputMouseButtonLeft, 1)
		}
		if actErr == nil {
			filled++
		}
	}
	return filled, nil
}

func (p *chromePage) SetViewport(width, height int) error {
	return (proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(p.page)
}

func (p *chromePage) ConsoleErrors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.consoleErrors)
}

func (p *chromePage) PageErrors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.pageErrors)
}

func (p *chromePage) Close() error {
	err := p.page.Close()
	p.cancel()
	return err
}

func consoleMessage(args []*proto.RuntimeRemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a == nil {
			continue
		}
		if !a.Value.Nil() {
			parts = append(parts, a.Value.String())
			continue
		}
		if a.Description != "" {
			parts = append(parts, a.Description)
		}
	}
	return strings.Join(parts, " ")
}
