// Package browser wraps the Playwright automation host: driver lifecycle,
// browsing-context creation honoring state and viewport, and the selector
// resolver mapping declarative selector specs to lazy locators.
package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/screenboard/pkg/config"
)

// Host owns one Playwright driver and one launched browser. Batch runs and
// the interactive session each own at most one Host at a time.
type Host struct {
	pw      *playwright.Playwright
	Browser playwright.Browser
}

// Start installs the Playwright driver if needed and launches Chromium.
// Driver output is discarded so it does not interleave with our logs.
func Start(headless bool) (*Host, error) {
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Host{pw: pw, Browser: b}, nil
}

// NewContext opens a fresh browsing context sized to the viewport, replaying
// the state's storage handle when present, and runs the state's setup hook
// once against a new page.
func (h *Host) NewContext(state config.State, viewport config.Viewport) (playwright.BrowserContext, playwright.Page, error) {
	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewport.Width,
			Height: viewport.Height,
		},
	}
	if state.StorageStatePath != "" {
		opts.StorageStatePath = playwright.String(state.StorageStatePath)
	}

	ctx, err := h.Browser.NewContext(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("create context for state %q: %w", state.ID, err)
	}

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		return nil, nil, fmt.Errorf("create page for state %q: %w", state.ID, err)
	}

	if state.Setup != nil {
		if err := state.Setup(page); err != nil {
			ctx.Close()
			return nil, nil, fmt.Errorf("setup for state %q: %w", state.ID, err)
		}
	}

	return ctx, page, nil
}

// Close shuts down the browser and stops the Playwright driver. Errors are
// returned for logging but teardown continues regardless.
func (h *Host) Close() error {
	var firstErr error
	if h.Browser != nil {
		if err := h.Browser.Close(); err != nil {
			firstErr = err
		}
	}
	if h.pw != nil {
		if err := h.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
