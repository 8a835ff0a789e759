package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/screenboard/pkg/config"
)

// SelectorTimeout caps every selector wait. Readiness and waitFor selector
// waits never block longer than this.
const SelectorTimeout = 5 * time.Second

// Resolve maps a selector spec to a locator. Locators are lazy: no DOM
// lookup happens until an action (count, click, fill, press, wait) runs, so
// a spec can be validated without acting on the page.
func Resolve(page playwright.Page, spec config.SelectorSpec) playwright.Locator {
	switch spec.Kind() {
	case config.SelectorTestID:
		return page.GetByTestId(spec.TestID)
	case config.SelectorRole:
		if spec.Name != "" {
			return page.GetByRole(playwright.AriaRole(spec.Role), playwright.PageGetByRoleOptions{
				Name: spec.Name,
			})
		}
		return page.GetByRole(playwright.AriaRole(spec.Role))
	case config.SelectorText:
		return page.GetByText(spec.Text)
	case config.SelectorCSS:
		return page.Locator(spec.CSS)
	default:
		// Unreachable after validation; keep the switch total.
		return page.Locator(spec.CSS)
	}
}

// Count returns the number of elements matching the spec. Zero matches is a
// legitimate result, not an error.
func Count(page playwright.Page, spec config.SelectorSpec) (int, error) {
	count, err := Resolve(page, spec).Count()
	if err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

// WaitFor waits for the spec to match, capped at SelectorTimeout.
func WaitFor(page playwright.Page, spec config.SelectorSpec) error {
	err := Resolve(page, spec).WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(float64(SelectorTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("wait for selector: %w", err)
	}
	return nil
}
