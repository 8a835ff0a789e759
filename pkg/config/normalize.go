package config

// DefaultOutputDir is where run artifacts land when the config does not say.
const DefaultOutputDir = "screenboard-out"

// Normalize fills defaults in place: the output directory, a single default
// viewport and state when the lists are empty, and empty screen/flow lists.
// Every consumer of a Config assumes it has been normalized.
func Normalize(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}

	if len(cfg.Viewports) == 0 {
		cfg.Viewports = []Viewport{{
			ID:     "desktop",
			Name:   "Desktop",
			Width:  1280,
			Height: 720,
		}}
	}

	if len(cfg.States) == 0 {
		cfg.States = []State{{ID: "default", Name: "Default"}}
	}

	if cfg.Screens == nil {
		cfg.Screens = []Screen{}
	}
	if cfg.Flows == nil {
		cfg.Flows = []Flow{}
	}
}
