// Package recorder turns in-page user interactions into portable flow
// steps. It installs a capture-phase click listener inside the page which
// derives a selector for each clicked element and streams it back through an
// exposed host binding; main-frame navigations become goto steps.
package recorder

import (
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"github.com/entrhq/screenboard/pkg/config"
	"github.com/entrhq/screenboard/pkg/manifest"
)

const bindingName = "__screenboardRecordClick"

// Recorder buffers steps for one recording at a time. It is scoped to one
// page/context generation: the session controller creates a fresh Recorder
// whenever it recreates the browsing context.
type Recorder struct {
	mu        sync.Mutex
	installed bool
	active    bool
	flow      *config.Flow
	lastURL   string
	log       *logrus.Entry
}

// New creates a recorder. The logger may be nil.
func New(log *logrus.Entry) *Recorder {
	return &Recorder{log: log}
}

// Install attaches the in-page instrumentation to the page: the host
// binding, the click listener (installed now and re-installed on every
// future navigation via an init script), and the navigation watcher.
// Idempotent per recorder; re-installing is a no-op.
func (r *Recorder) Install(page playwright.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.installed {
		return nil
	}

	err := page.ExposeBinding(bindingName, func(source *playwright.BindingSource, args ...interface{}) interface{} {
		if len(args) > 0 {
			r.recordClick(args[0])
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("expose recorder binding: %w", err)
	}

	if err := page.AddInitScript(playwright.Script{Content: playwright.String(clickListenerJS)}); err != nil {
		return fmt.Errorf("add recorder init script: %w", err)
	}
	// The init script only covers future documents; instrument the current
	// one directly.
	if _, err := page.Evaluate(clickListenerJS); err != nil {
		return fmt.Errorf("install recorder listener: %w", err)
	}

	page.OnFrameNavigated(func(frame playwright.Frame) {
		if frame.ParentFrame() != nil {
			return
		}
		r.recordNavigation(frame.URL())
	})

	r.installed = true
	return nil
}

// Start begins buffering steps into a new flow keyed by a slug of name.
// Starting while already recording restarts with an empty buffer.
func (r *Recorder) Start(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = true
	r.lastURL = ""
	r.flow = &config.Flow{
		ID:    manifest.Slugify(name),
		Name:  name,
		Steps: []config.FlowStep{},
	}
	if r.log != nil {
		r.log.WithField("flow", r.flow.ID).Info("recording started")
	}
}

// Recording reports whether a recording is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Stop finalizes and returns the recorded flow, or nil when no recording
// was active. The caller stamps the flow with the session's state and
// viewport ids before merging it into the live config.
func (r *Recorder) Stop() *config.Flow {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return nil
	}
	r.active = false
	f := r.flow
	r.flow = nil
	if r.log != nil {
		r.log.WithFields(logrus.Fields{"flow": f.ID, "steps": len(f.Steps)}).Info("recording stopped")
	}
	return f
}

// recordNavigation appends a goto step for a distinct main-frame navigation.
// Deduplication is against the immediately preceding URL only, not the full
// history, so back-and-forth navigation is preserved.
func (r *Recorder) recordNavigation(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active || url == r.lastURL {
		return
	}
	r.lastURL = url
	r.flow.Steps = append(r.flow.Steps, config.FlowStep{
		Type: config.StepGoto,
		URL:  url,
	})
}

// recordClick converts an in-page click payload into a click step.
func (r *Recorder) recordClick(payload interface{}) {
	spec, ok := selectorFromPayload(payload)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	r.flow.Steps = append(r.flow.Steps, config.FlowStep{
		Type:     config.StepClick,
		Selector: &spec,
	})
}

// selectorFromPayload maps the JS-derived selector object onto a spec.
func selectorFromPayload(payload interface{}) (config.SelectorSpec, bool) {
	fields, ok := payload.(map[string]interface{})
	if !ok {
		return config.SelectorSpec{}, false
	}

	str := func(key string) string {
		v, _ := fields[key].(string)
		return v
	}

	spec := config.SelectorSpec{
		TestID: str("testId"),
		Role:   str("role"),
		Name:   str("name"),
		Text:   str("text"),
		CSS:    str("css"),
	}
	if spec == (config.SelectorSpec{}) {
		return spec, false
	}
	return spec, true
}
