// Package flow executes recorded multi-step flows against a browsing
// context, emitting manifest entries for capture steps.
package flow

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"github.com/entrhq/screenboard/pkg/browser"
	"github.com/entrhq/screenboard/pkg/capture"
	"github.com/entrhq/screenboard/pkg/config"
	"github.com/entrhq/screenboard/pkg/manifest"
)

// Options configures one flow execution.
type Options struct {
	BaseURL string
	OutDir  string
	Log     *logrus.Entry
}

// Run executes the flow's steps strictly in order in a fresh browsing
// context and returns its manifest entry. The flow's state and viewport are
// resolved by id with first-entry fallback. Capture steps append screen
// entries to the manifest, tagged with the flow id and the step's zero-based
// index; the returned entry echoes the flow's definition verbatim.
func Run(host *browser.Host, cfg *config.Config, f config.Flow, m *manifest.Manifest, opts Options) (manifest.FlowEntry, error) {
	state, _ := cfg.StateByID(f.StateID)
	viewport, _ := cfg.ViewportByID(f.ViewportID)

	ctx, page, err := host.NewContext(state, viewport)
	if err != nil {
		return manifest.FlowEntry{}, fmt.Errorf("flow %q: %w", f.ID, err)
	}
	defer ctx.Close()

	run := &execution{
		flow:     f,
		state:    state,
		viewport: viewport,
		manifest: m,
		opts:     opts,
		points:   capturePoints(f),
	}

	for i, step := range f.Steps {
		if opts.Log != nil {
			opts.Log.WithFields(logrus.Fields{
				"flow": f.ID,
				"step": i,
				"type": step.Type,
			}).Debug("executing step")
		}
		if err := run.step(page, step); err != nil {
			return manifest.FlowEntry{}, fmt.Errorf("flow %q step %d (%s): %w", f.ID, i, step.Type, err)
		}
	}

	for _, url := range browser.DiscoverURLs(page) {
		m.Discover(url)
	}

	entry := manifest.FlowEntry{
		ID:         f.ID,
		Name:       f.Name,
		ViewportID: viewport.ID,
		StateID:    state.ID,
		Steps:      f.Steps,
	}
	m.AddFlow(entry)
	return entry, nil
}

// execution carries per-run interpreter state.
type execution struct {
	flow     config.Flow
	state    config.State
	viewport config.Viewport
	manifest *manifest.Manifest
	opts     Options

	// points holds the flow's remaining capture points; each capture step
	// consumes the next one.
	points []capturePoint
}

func (e *execution) step(page playwright.Page, step config.FlowStep) error {
	switch step.Type {
	case config.StepGoto:
		return browser.Navigate(page, capture.ResolveURL(e.opts.BaseURL, step.URL))

	case config.StepClick:
		if err := browser.Resolve(page, *step.Selector).Click(); err != nil {
			return fmt.Errorf("click: %w", err)
		}
		return nil

	case config.StepFill:
		if err := browser.Resolve(page, *step.Selector).Fill(step.Value); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
		return nil

	case config.StepPress:
		if err := browser.Resolve(page, *step.Selector).Press(step.Key); err != nil {
			return fmt.Errorf("press %s: %w", step.Key, err)
		}
		return nil

	case config.StepWaitFor:
		if step.Selector != nil {
			return browser.WaitFor(page, *step.Selector)
		}
		time.Sleep(time.Duration(step.TimeoutMs) * time.Millisecond)
		return nil

	case config.StepCapture:
		return e.capture(page)

	default:
		// Validation keeps this unreachable; refuse rather than skip.
		return fmt.Errorf("unknown step type %q", step.Type)
	}
}

// capture synthesizes a transient screen from the page's current position.
func (e *execution) capture(page playwright.Page) error {
	if len(e.points) == 0 {
		return fmt.Errorf("no capture point left")
	}
	point := e.points[0]
	e.points = e.points[1:]

	stepIndex := point.Index
	entry, err := capture.Shoot(page, capture.Target{
		BaseID:    CaptureBaseID(e.flow, point.Name),
		Name:      point.Name,
		URL:       page.URL(),
		State:     e.state,
		Viewport:  e.viewport,
		FlowID:    e.flow.ID,
		StepIndex: &stepIndex,
	}, e.opts.OutDir)
	if err != nil {
		return err
	}
	e.manifest.AddScreen(entry)
	return nil
}

// capturePoint is a capture step's resolved name and its zero-based index
// within the flow's step list.
type capturePoint struct {
	Name  string
	Index int
}

// capturePoints resolves every capture step of the flow up front. Default
// names count capture steps only, so the second capture of a flow is
// "{flow.Name} Step 2" no matter how many other steps precede it.
func capturePoints(f config.Flow) []capturePoint {
	var points []capturePoint
	captures := 0
	for i, step := range f.Steps {
		if step.Type != config.StepCapture {
			continue
		}
		captures++

		name := step.Name
		if name == "" {
			name = fmt.Sprintf("%s Step %d", f.Name, captures)
		}
		points = append(points, capturePoint{Name: name, Index: i})
	}
	return points
}

// CaptureBaseID derives the manifest base id for a flow capture step.
func CaptureBaseID(f config.Flow, name string) string {
	return manifest.Slugify(f.ID + "-" + name)
}
