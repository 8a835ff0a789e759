// Package session implements the interactive session controller: a state
// machine owning one long-lived automated browser session shared across
// ad-hoc HTTP-triggered operations (launch, navigate, capture, record).
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"github.com/entrhq/screenboard/pkg/browser"
	"github.com/entrhq/screenboard/pkg/capture"
	"github.com/entrhq/screenboard/pkg/config"
	"github.com/entrhq/screenboard/pkg/launcher"
	"github.com/entrhq/screenboard/pkg/logging"
	"github.com/entrhq/screenboard/pkg/manifest"
	"github.com/entrhq/screenboard/pkg/recorder"
)

// ErrNotLaunched is returned by operations that need an active browser
// session when none exists. It is reported to the caller, never fatal.
var ErrNotLaunched = errors.New("session not launched")

// Options configures a controller.
type Options struct {
	// OutDir is where capture screenshots land.
	OutDir string

	// SavePath is where the save operation writes the config overlay.
	// Defaults to "screenboard.json" in the working directory.
	SavePath string

	// Headless is the default browser visibility for launches that do not
	// specify one.
	Headless bool

	Logger *logrus.Logger
}

// Controller owns one browser session and the live working config. All
// operations serialize on an internal mutex: one logical operation runs at
// a time. Individual operation failures leave the session alive so the user
// can retry; only Close tears the browser down.
type Controller struct {
	mu sync.Mutex

	cfg      config.Config
	opts     Options
	log      *logrus.Entry
	baseURL  string
	headless bool

	host *browser.Host
	app  *launcher.App

	browserCtx playwright.BrowserContext
	page       playwright.Page
	rec        *recorder.Recorder
	stateID    string
	viewportID string
}

// New creates a controller around a normalized copy of cfg.
func New(cfg config.Config, opts Options) *Controller {
	config.Normalize(&cfg)
	if opts.OutDir == "" {
		opts.OutDir = cfg.Output.Dir
	}
	if opts.SavePath == "" {
		opts.SavePath = config.OverlayFileName
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Controller{
		cfg:      cfg,
		opts:     opts,
		log:      logging.ForComponent(opts.Logger, "session"),
		baseURL:  cfg.App.BaseURL,
		headless: opts.Headless,
	}
}

// Status describes the session for the status endpoint.
type Status struct {
	Connected bool   `json:"connected"`
	URL       string `json:"url,omitempty"`
	BaseURL   string `json:"baseUrl,omitempty"`
	Recording bool   `json:"recording"`
}

// Status reports the current session state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{
		Connected: c.page != nil,
		BaseURL:   c.baseURL,
		Recording: c.rec != nil && c.rec.Recording(),
	}
	if c.page != nil {
		s.URL = c.page.URL()
	}
	return s
}

// Config returns a copy of the live working config. Setup hooks are carried
// but drop out of any serialization.
func (c *Controller) Config() config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// UpdateConfig replaces the working config (normalized) without touching the
// live browser session. An unchanged (state, viewport) context keeps its
// already-ran setup hook; hooks do not re-run on config updates.
func (c *Controller) UpdateConfig(next config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	config.Normalize(&next)
	c.cfg = next
	if next.App.BaseURL != "" {
		c.baseURL = next.App.BaseURL
	}
}

// LaunchOptions parameterize a launch.
type LaunchOptions struct {
	BaseURL    string
	Headless   *bool
	ViewportID string
	StateID    string
	Config     *config.Config
}

// Launch ensures the target app is reachable, starts the browser if none is
// running, and (re)ensures a context matching the requested state and
// viewport. Repeated calls with the same state/viewport are idempotent. A
// reachability failure leaves the session idle with no browser started.
func (c *Controller) Launch(ctx context.Context, opts LaunchOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if opts.Config != nil {
		next := *opts.Config
		config.Normalize(&next)
		c.cfg = next
	}
	if opts.BaseURL != "" {
		c.baseURL = opts.BaseURL
	} else if c.baseURL == "" {
		c.baseURL = c.cfg.App.BaseURL
	}
	if opts.Headless != nil {
		c.headless = *opts.Headless
	}

	if c.host == nil {
		app, err := launcher.Ensure(ctx, config.App{
			BaseURL: c.baseURL,
			Command: c.cfg.App.Command,
			Cwd:     c.cfg.App.Cwd,
		}, c.log)
		if err != nil {
			return err
		}

		host, err := browser.Start(c.headless)
		if err != nil {
			app.Stop()
			return err
		}
		c.app = app
		c.host = host
		c.log.Info("browser launched")
	}

	if err := c.ensureContext(opts.StateID, opts.ViewportID); err != nil {
		return err
	}

	if c.baseURL != "" {
		return browser.Navigate(c.page, c.baseURL)
	}
	return nil
}

// ensureContext creates a new browsing context (with page and recorder) iff
// none exists or the requested state/viewport differ from the active ones.
// Empty requested ids mean "keep current", falling back to the config's
// first entries when nothing is active yet. Caller holds the lock.
func (c *Controller) ensureContext(stateID, viewportID string) error {
	if c.host == nil {
		return ErrNotLaunched
	}

	stateID, viewportID = c.resolveRequest(stateID, viewportID)
	if !needsNewContext(c.browserCtx != nil, c.stateID, c.viewportID, stateID, viewportID) {
		return nil
	}

	state, _ := c.cfg.StateByID(stateID)
	viewport, _ := c.cfg.ViewportByID(viewportID)

	if c.browserCtx != nil {
		if err := c.browserCtx.Close(); err != nil {
			c.log.WithError(err).Warn("closing previous context failed")
		}
		c.browserCtx = nil
		c.page = nil
		c.rec = nil
	}

	browserCtx, page, err := c.host.NewContext(state, viewport)
	if err != nil {
		return err
	}

	rec := recorder.New(c.log)
	if err := rec.Install(page); err != nil {
		browserCtx.Close()
		return err
	}

	c.browserCtx = browserCtx
	c.page = page
	c.rec = rec
	c.stateID = state.ID
	c.viewportID = viewport.ID
	c.log.WithFields(logrus.Fields{"state": state.ID, "viewport": viewport.ID}).Info("context ready")
	return nil
}

// resolveRequest fills empty requested ids from the active context, or the
// config's first entries when idle.
func (c *Controller) resolveRequest(stateID, viewportID string) (string, string) {
	if stateID == "" {
		if c.browserCtx != nil {
			stateID = c.stateID
		} else {
			stateID = c.cfg.States[0].ID
		}
	}
	if viewportID == "" {
		if c.browserCtx != nil {
			viewportID = c.viewportID
		} else {
			viewportID = c.cfg.Viewports[0].ID
		}
	}
	// Unknown ids fall back to the first entry rather than erroring.
	if _, ok := c.cfg.StateByID(stateID); !ok {
		stateID = c.cfg.States[0].ID
	}
	if _, ok := c.cfg.ViewportByID(viewportID); !ok {
		viewportID = c.cfg.Viewports[0].ID
	}
	return stateID, viewportID
}

// needsNewContext is the context-recreation policy: recreate iff no context
// exists or the requested state or viewport id differs from the active one.
func needsNewContext(exists bool, curState, curViewport, reqState, reqViewport string) bool {
	if !exists {
		return true
	}
	return curState != reqState || curViewport != reqViewport
}

// Goto navigates the session's page and waits for network idleness.
func (c *Controller) Goto(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.page == nil {
		return ErrNotLaunched
	}
	return browser.Navigate(c.page, capture.ResolveURL(c.baseURL, url))
}

// CaptureOptions parameterize an interactive capture.
type CaptureOptions struct {
	Name       string
	URL        string
	ViewportID string
	StateID    string
}

// Capture ensures a context for the requested state/viewport, optionally
// navigates, screenshots the page and appends the resulting screen to the
// live config. It returns the appended screen and its manifest entry.
func (c *Controller) Capture(opts CaptureOptions) (config.Screen, manifest.ScreenEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Reject before touching the browser; a bad request must not navigate.
	if opts.Name == "" {
		return config.Screen{}, manifest.ScreenEntry{}, fmt.Errorf("capture requires a name")
	}

	if err := c.ensureContext(opts.StateID, opts.ViewportID); err != nil {
		return config.Screen{}, manifest.ScreenEntry{}, err
	}

	if opts.URL != "" {
		if err := browser.Navigate(c.page, capture.ResolveURL(c.baseURL, opts.URL)); err != nil {
			return config.Screen{}, manifest.ScreenEntry{}, err
		}
	}

	screen := config.Screen{
		ID:   manifest.Slugify(opts.Name),
		Name: opts.Name,
		URL:  opts.URL,
	}
	if screen.URL == "" {
		screen.URL = c.page.URL()
	}

	state, _ := c.cfg.StateByID(c.stateID)
	viewport, _ := c.cfg.ViewportByID(c.viewportID)

	entry, err := capture.Shoot(c.page, capture.Target{
		BaseID:   screen.ID,
		Name:     screen.Name,
		URL:      screen.URL,
		State:    state,
		Viewport: viewport,
	}, c.opts.OutDir)
	if err != nil {
		return config.Screen{}, manifest.ScreenEntry{}, err
	}

	// Append, not replace: the live config accumulates captured screens.
	c.cfg.Screens = append(c.cfg.Screens, screen)
	return screen, entry, nil
}

// ValidateSelector counts elements matching the spec on the current page.
func (c *Controller) ValidateSelector(spec config.SelectorSpec) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := spec.Validate(); err != nil {
		return 0, err
	}
	if c.page == nil {
		return 0, ErrNotLaunched
	}
	return browser.Count(c.page, spec)
}

// StartRecording begins buffering user interactions into a new flow.
func (c *Controller) StartRecording(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.page == nil || c.rec == nil {
		return ErrNotLaunched
	}
	c.rec.Start(name)
	return nil
}

// StopRecording finalizes the active recording, stamps it with the session's
// current state and viewport ids, and returns it. Returns nil when no
// recording was active. The flow is not merged into the live config; use
// AppendFlow for that.
func (c *Controller) StopRecording() *config.Flow {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rec == nil {
		return nil
	}
	f := c.rec.Stop()
	if f == nil {
		return nil
	}
	f.StateID = c.stateID
	f.ViewportID = c.viewportID
	return f
}

// AppendFlow merges a finalized flow into the live config.
func (c *Controller) AppendFlow(f config.Flow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Flows = append(c.cfg.Flows, f)
}

// Save persists the working config as the overlay file. When next is
// non-nil it replaces the working config first.
func (c *Controller) Save(next *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if next != nil {
		cfg := *next
		config.Normalize(&cfg)
		c.cfg = cfg
	}
	return config.Save(c.cfg, c.opts.SavePath)
}

// Close tears down context, browser and any spawned app process. Safe to
// call from any state; the controller always ends idle.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browserCtx != nil {
		if err := c.browserCtx.Close(); err != nil {
			c.log.WithError(err).Warn("context close failed")
		}
	}
	if c.host != nil {
		if err := c.host.Close(); err != nil {
			c.log.WithError(err).Warn("browser close failed")
		}
	}
	c.app.Stop()

	c.browserCtx = nil
	c.page = nil
	c.rec = nil
	c.host = nil
	c.app = nil
	c.stateID = ""
	c.viewportID = ""
	c.log.Info("session closed")
}
