// Package config defines the declarative screenboard configuration: the
// viewports, states, screens and flows that drive a capture run, plus the
// normalize/merge/load operations applied before any browser work starts.
package config

import (
	"github.com/playwright-community/playwright-go"
)

// Viewport is a named browser window size the page is resized to before
// capture. Identity is the ID, unique within a config.
type Viewport struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// SetupFunc prepares a freshly created browsing context, e.g. by logging in.
// It runs once per context, never per screen.
type SetupFunc func(page playwright.Page) error

// State is a named browser-context precondition. StorageStatePath points at
// a Playwright storage-state file replayed into every context created for
// this state. Setup is an optional in-process hook and is never serialized.
type State struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	StorageStatePath string `json:"storageState,omitempty" yaml:"storageState,omitempty"`

	Setup SetupFunc `json:"-" yaml:"-"`
}

// SelectorKind discriminates the selector variants.
type SelectorKind string

const (
	SelectorTestID SelectorKind = "testId"
	SelectorRole   SelectorKind = "role"
	SelectorText   SelectorKind = "text"
	SelectorCSS    SelectorKind = "css"
)

// SelectorSpec describes how to locate one element, independent of the query
// engine. Exactly one variant may be set; Validate enforces this so the
// resolver can switch exhaustively on Kind.
type SelectorSpec struct {
	TestID string `json:"testId,omitempty" yaml:"testId,omitempty"`
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	CSS    string `json:"css,omitempty" yaml:"css,omitempty"`
}

// Kind returns the variant this spec carries. Only meaningful after
// Validate has passed; with multiple variants set it reports the first in
// preference order.
func (s SelectorSpec) Kind() SelectorKind {
	switch {
	case s.TestID != "":
		return SelectorTestID
	case s.Role != "":
		return SelectorRole
	case s.Text != "":
		return SelectorText
	default:
		return SelectorCSS
	}
}

// variantCount reports how many variants are set.
func (s SelectorSpec) variantCount() int {
	n := 0
	if s.TestID != "" {
		n++
	}
	if s.Role != "" {
		n++
	}
	if s.Text != "" {
		n++
	}
	if s.CSS != "" {
		n++
	}
	return n
}

// ReadySpec is a post-navigation wait condition: either an element selector
// (waited on with a capped timeout) or a fixed sleep in milliseconds.
type ReadySpec struct {
	Selector  *SelectorSpec `json:"selector,omitempty" yaml:"selector,omitempty"`
	TimeoutMs int           `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
}

// Screen is a declarative capture target: a literal URL or a parameterized
// template. States/Viewports are inclusion filters; empty means match all.
type Screen struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	URL       string     `json:"url,omitempty" yaml:"url,omitempty"`
	Template  string     `json:"template,omitempty" yaml:"template,omitempty"`
	Params    *Params    `json:"params,omitempty" yaml:"params,omitempty"`
	Ready     *ReadySpec `json:"ready,omitempty" yaml:"ready,omitempty"`
	States    []string   `json:"states,omitempty" yaml:"states,omitempty"`
	Viewports []string   `json:"viewports,omitempty" yaml:"viewports,omitempty"`
}

// Path returns the screen's navigation target before template expansion.
func (s Screen) Path() string {
	switch {
	case s.URL != "":
		return s.URL
	case s.Template != "":
		return s.Template
	default:
		return "/"
	}
}

// MatchesState reports whether the screen participates in the given state.
func (s Screen) MatchesState(stateID string) bool {
	return matchesFilter(s.States, stateID)
}

// MatchesViewport reports whether the screen participates in the given
// viewport.
func (s Screen) MatchesViewport(viewportID string) bool {
	return matchesFilter(s.Viewports, viewportID)
}

func matchesFilter(filter []string, id string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == id {
			return true
		}
	}
	return false
}

// StepType discriminates flow steps.
type StepType string

const (
	StepGoto    StepType = "goto"
	StepClick   StepType = "click"
	StepFill    StepType = "fill"
	StepPress   StepType = "press"
	StepWaitFor StepType = "waitFor"
	StepCapture StepType = "capture"
)

// FlowStep is one replayable interaction. The Type field selects which of
// the remaining fields are meaningful; Validate enforces the per-type shape.
type FlowStep struct {
	Type      StepType      `json:"type" yaml:"type"`
	URL       string        `json:"url,omitempty" yaml:"url,omitempty"`
	Selector  *SelectorSpec `json:"selector,omitempty" yaml:"selector,omitempty"`
	Value     string        `json:"value,omitempty" yaml:"value,omitempty"`
	Key       string        `json:"key,omitempty" yaml:"key,omitempty"`
	TimeoutMs int           `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
}

// Flow is an ordered, replayable sequence of steps, optionally pinned to a
// viewport and state by id. Absent ids fall back to the first entry.
type Flow struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	ViewportID string     `json:"viewport,omitempty" yaml:"viewport,omitempty"`
	StateID    string     `json:"state,omitempty" yaml:"state,omitempty"`
	Steps      []FlowStep `json:"steps" yaml:"steps"`
}

// App describes the target application under capture.
type App struct {
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	Cwd     string `json:"cwd,omitempty" yaml:"cwd,omitempty"`
}

// Output describes where run artifacts land.
type Output struct {
	Dir   string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Config is the full declarative input for a run or interactive session.
type Config struct {
	App       App        `json:"app,omitempty" yaml:"app,omitempty"`
	Output    Output     `json:"output,omitempty" yaml:"output,omitempty"`
	Viewports []Viewport `json:"viewports,omitempty" yaml:"viewports,omitempty"`
	States    []State    `json:"states,omitempty" yaml:"states,omitempty"`
	Screens   []Screen   `json:"screens,omitempty" yaml:"screens,omitempty"`
	Flows     []Flow     `json:"flows,omitempty" yaml:"flows,omitempty"`
}

// ViewportByID returns the viewport with the given id, falling back to the
// first viewport when the id is absent or unknown. The bool reports whether
// the id matched. Requires a normalized config (non-empty viewports).
func (c *Config) ViewportByID(id string) (Viewport, bool) {
	for _, v := range c.Viewports {
		if v.ID == id {
			return v, true
		}
	}
	return c.Viewports[0], false
}

// StateByID returns the state with the given id, falling back to the first
// state. Requires a normalized config.
func (c *Config) StateByID(id string) (State, bool) {
	for _, s := range c.States {
		if s.ID == id {
			return s, true
		}
	}
	return c.States[0], false
}
