// Package pipeline runs a full batch capture: it makes the target app
// reachable, walks the state × viewport × screen × variant matrix with one
// browser, executes flows, and writes the manifest.
package pipeline

import (
	"context"
	"fmt"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"github.com/entrhq/screenboard/pkg/browser"
	"github.com/entrhq/screenboard/pkg/capture"
	"github.com/entrhq/screenboard/pkg/config"
	"github.com/entrhq/screenboard/pkg/flow"
	"github.com/entrhq/screenboard/pkg/launcher"
	"github.com/entrhq/screenboard/pkg/logging"
	"github.com/entrhq/screenboard/pkg/manifest"
	"github.com/entrhq/screenboard/pkg/plan"
)

// Options configures a batch run. Zero-value fields defer to the config.
type Options struct {
	// BaseURL overrides the config's app.baseUrl.
	BaseURL string

	// Headless controls browser visibility.
	Headless bool

	// OutDir overrides the config's output.dir.
	OutDir string

	// Only, when set, restricts the run to screens whose id matches the
	// glob pattern.
	Only string

	// Debug enables per-item debug logging.
	Debug bool

	Logger *logrus.Logger
}

// Run executes the whole matrix and every flow, returning the manifest it
// wrote. Any unrecovered error aborts remaining work; the browser and any
// spawned app process are torn down on every path.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*manifest.Manifest, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	log := logging.ForComponent(opts.Logger, "pipeline")

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = cfg.App.BaseURL
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	var only glob.Glob
	if opts.Only != "" {
		compiled, err := glob.Compile(opts.Only)
		if err != nil {
			return nil, fmt.Errorf("invalid --only pattern %q: %w", opts.Only, err)
		}
		only = compiled
	}

	app, err := launcher.Ensure(ctx, config.App{
		BaseURL: baseURL,
		Command: cfg.App.Command,
		Cwd:     cfg.App.Cwd,
	}, log)
	if err != nil {
		return nil, err
	}
	defer app.Stop()

	host, err := browser.Start(opts.Headless)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := host.Close(); err != nil {
			log.WithError(err).Warn("browser teardown failed")
		}
	}()

	m := manifest.New(cfg, baseURL, uuid.NewString())

	if err := walkMatrix(cfg, host, m, baseURL, outDir, only, opts.Debug, log); err != nil {
		return nil, err
	}

	for _, f := range cfg.Flows {
		log.WithField("flow", f.ID).Info("running flow")
		if _, err := flow.Run(host, cfg, f, m, flow.Options{
			BaseURL: baseURL,
			OutDir:  outDir,
			Log:     log,
		}); err != nil {
			return nil, err
		}
	}

	if err := m.Write(outDir); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"screens": len(m.Screens),
		"flows":   len(m.Flows),
		"out":     outDir,
	}).Info("run complete")
	return m, nil
}

// walkMatrix iterates the expanded plan, recreating the browsing context on
// state changes and resizing on viewport changes. The plan's nesting keeps
// both events rare.
func walkMatrix(cfg *config.Config, host *browser.Host, m *manifest.Manifest, baseURL, outDir string, only glob.Glob, debug bool, log *logrus.Entry) error {
	var (
		browserCtx playwright.BrowserContext
		page       playwright.Page
		stateID    string
		viewportID string
	)
	defer func() {
		if browserCtx != nil {
			browserCtx.Close()
		}
	}()

	for _, item := range plan.Expand(cfg) {
		if only != nil && !only.Match(item.Screen.ID) {
			continue
		}

		if browserCtx == nil || item.State.ID != stateID {
			if browserCtx != nil {
				browserCtx.Close()
			}
			var err error
			browserCtx, page, err = host.NewContext(item.State, item.Viewport)
			if err != nil {
				return err
			}
			stateID = item.State.ID
			viewportID = item.Viewport.ID
		} else if item.Viewport.ID != viewportID {
			if err := page.SetViewportSize(item.Viewport.Width, item.Viewport.Height); err != nil {
				return fmt.Errorf("resize to %s: %w", item.Viewport.ID, err)
			}
			viewportID = item.Viewport.ID
		}

		url := capture.ResolveURL(baseURL, item.URL)
		if debug {
			log.WithFields(logrus.Fields{
				"screen":   item.Screen.ID,
				"state":    stateID,
				"viewport": viewportID,
				"url":      url,
			}).Debug("capturing")
		}

		if err := browser.Navigate(page, url); err != nil {
			return err
		}

		baseID := item.Screen.ID
		if item.Variant != "" {
			baseID += "-" + item.Variant
		}

		entry, err := capture.Shoot(page, capture.Target{
			BaseID:   baseID,
			Name:     item.Screen.Name,
			URL:      url,
			Ready:    item.Screen.Ready,
			State:    item.State,
			Viewport: item.Viewport,
		}, outDir)
		if err != nil {
			return err
		}
		m.AddScreen(entry)

		for _, discovered := range browser.DiscoverURLs(page) {
			m.Discover(discovered)
		}
	}
	return nil
}
