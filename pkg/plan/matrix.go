package plan

import "github.com/entrhq/screenboard/pkg/config"

// Item is one concrete capture to perform: a screen's URL variant under a
// given state and viewport.
type Item struct {
	State    config.State
	Viewport config.Viewport
	Screen   config.Screen
	URL      string
	Variant  string
}

// Expand computes the ordered execution matrix. States iterate outermost,
// then viewports, then screens in declaration order, then URL variants in
// expansion order. The nesting keeps browsing-context churn minimal: one
// context per state, one resize per viewport, while screen navigation is
// cheap and repeated per combination.
func Expand(cfg *config.Config) []Item {
	var items []Item

	for _, state := range cfg.States {
		for _, viewport := range cfg.Viewports {
			for _, screen := range cfg.Screens {
				if !screen.MatchesState(state.ID) || !screen.MatchesViewport(viewport.ID) {
					continue
				}
				for _, variant := range ExpandTemplate(screen.Path(), screen.Params) {
					items = append(items, Item{
						State:    state,
						Viewport: viewport,
						Screen:   screen,
						URL:      variant.URL,
						Variant:  variant.Variant,
					})
				}
			}
		}
	}
	return items
}
