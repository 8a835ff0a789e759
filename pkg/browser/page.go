package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Navigate loads a URL and waits for network idleness, the readiness bar
// every capture and flow step relies on.
func Navigate(page playwright.Page, url string) error {
	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// DiscoverURLs reports the URL of every frame currently attached to the
// page. The caller filters and dedups.
func DiscoverURLs(page playwright.Page) []string {
	frames := page.Frames()
	urls := make([]string, 0, len(frames))
	for _, frame := range frames {
		urls = append(urls, frame.URL())
	}
	return urls
}
