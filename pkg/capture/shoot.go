// Package capture drives the automation host through the execution matrix:
// readiness waits, full-page screenshots and manifest assembly. Its Shoot
// primitive is shared with the flow interpreter and the interactive session.
package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/screenboard/pkg/browser"
	"github.com/entrhq/screenboard/pkg/config"
	"github.com/entrhq/screenboard/pkg/manifest"
)

// SettleDelay is the unconditional pause between readiness and screenshot,
// letting late paints and animations finish.
const SettleDelay = 150 * time.Millisecond

// ScreensDir is the screenshot directory under the output dir.
const ScreensDir = "screens"

// Target describes one screenshot to take from the page's current position.
// Navigation happens before Shoot; the primitive only waits, settles and
// captures.
type Target struct {
	// BaseID seeds the manifest entry id; the final id appends state and
	// viewport ids.
	BaseID   string
	Name     string
	URL      string
	Ready    *config.ReadySpec
	State    config.State
	Viewport config.Viewport

	// FlowID and StepIndex tag entries produced by flow capture steps.
	FlowID    string
	StepIndex *int
}

// Shoot applies the target's readiness wait, settles, takes a full-page PNG
// under outDir/screens and returns the manifest entry for it.
func Shoot(page playwright.Page, target Target, outDir string) (manifest.ScreenEntry, error) {
	if err := awaitReady(page, target.Ready); err != nil {
		return manifest.ScreenEntry{}, err
	}
	time.Sleep(SettleDelay)

	id := manifest.EntryID(target.BaseID, target.State.ID, target.Viewport.ID)
	file := manifest.FileSafeName(id)

	dir := filepath.Join(outDir, ScreensDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return manifest.ScreenEntry{}, fmt.Errorf("create screens dir: %w", err)
	}

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Path:     playwright.String(filepath.Join(dir, file)),
	})
	if err != nil {
		return manifest.ScreenEntry{}, fmt.Errorf("screenshot %s: %w", id, err)
	}

	return manifest.ScreenEntry{
		ID:         id,
		Name:       target.Name,
		URL:        target.URL,
		Image:      ScreensDir + "/" + file,
		Width:      target.Viewport.Width,
		Height:     target.Viewport.Height,
		ViewportID: target.Viewport.ID,
		StateID:    target.State.ID,
		FlowID:     target.FlowID,
		StepIndex:  target.StepIndex,
	}, nil
}

// awaitReady applies a post-navigation readiness condition: a selector wait
// capped by the selector timeout, or a fixed sleep.
func awaitReady(page playwright.Page, ready *config.ReadySpec) error {
	switch {
	case ready == nil:
		return nil
	case ready.Selector != nil:
		return browser.WaitFor(page, *ready.Selector)
	case ready.TimeoutMs > 0:
		time.Sleep(time.Duration(ready.TimeoutMs) * time.Millisecond)
		return nil
	default:
		return nil
	}
}

// ResolveURL resolves a screen or step URL against the base URL. Absolute
// URLs pass through; relative paths join with a single slash.
func ResolveURL(baseURL, path string) string {
	if strings.Contains(path, "://") || baseURL == "" {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
