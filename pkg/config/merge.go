package config

// Merge overlays one config onto another. App and Output merge key-by-key
// with the overlay winning per non-empty field; the list fields are replaced
// wholesale when the overlay defines them, otherwise the base list is kept.
// There is no element-level merge or dedup.
func Merge(base, overlay Config) Config {
	merged := base

	if overlay.App.BaseURL != "" {
		merged.App.BaseURL = overlay.App.BaseURL
	}
	if overlay.App.Command != "" {
		merged.App.Command = overlay.App.Command
	}
	if overlay.App.Cwd != "" {
		merged.App.Cwd = overlay.App.Cwd
	}

	if overlay.Output.Dir != "" {
		merged.Output.Dir = overlay.Output.Dir
	}
	if overlay.Output.Title != "" {
		merged.Output.Title = overlay.Output.Title
	}

	if overlay.Viewports != nil {
		merged.Viewports = overlay.Viewports
	}
	if overlay.States != nil {
		merged.States = overlay.States
	}
	if overlay.Screens != nil {
		merged.Screens = overlay.Screens
	}
	if overlay.Flows != nil {
		merged.Flows = overlay.Flows
	}

	return merged
}
