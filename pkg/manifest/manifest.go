// Package manifest defines the output record of a capture run: every
// captured screen and flow plus discovered navigation targets, written as
// manifest.json for the static viewer.
package manifest

import (
	"sort"
	"strings"
	"time"

	"github.com/entrhq/screenboard/pkg/config"
)

// ScreenEntry records one captured screenshot. ID is derived as
// "{base}-{stateID}-{viewportID}" which is unique per (screen, state,
// viewport) within one run. Image is relative to the output directory.
type ScreenEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Image      string `json:"image"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ViewportID string `json:"viewportId"`
	StateID    string `json:"stateId"`
	FlowID     string `json:"flowId,omitempty"`
	StepIndex  *int   `json:"stepIndex,omitempty"`
}

// FlowEntry records one executed flow. Steps echo the flow definition
// verbatim; execution does not mutate them.
type FlowEntry struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	ViewportID string            `json:"viewportId,omitempty"`
	StateID    string            `json:"stateId,omitempty"`
	Steps      []config.FlowStep `json:"steps"`
}

// Manifest is the append-only record of one run or interactive session.
type Manifest struct {
	Title       string            `json:"title,omitempty"`
	GeneratedAt time.Time         `json:"generatedAt"`
	BaseURL     string            `json:"baseUrl,omitempty"`
	RunID       string            `json:"runId,omitempty"`
	Screens     []ScreenEntry     `json:"screens"`
	Flows       []FlowEntry       `json:"flows"`
	Viewports   []config.Viewport `json:"viewports"`
	States      []config.State    `json:"states"`

	// DiscoveredURLs is every frame URL seen during the run, deduplicated
	// and sorted, "about:" URLs excluded.
	DiscoveredURLs []string `json:"discoveredUrls"`

	discovered map[string]bool
}

// New creates an empty manifest stamped with the run's metadata.
func New(cfg *config.Config, baseURL, runID string) *Manifest {
	return &Manifest{
		Title:          cfg.Output.Title,
		GeneratedAt:    time.Now().UTC(),
		BaseURL:        baseURL,
		RunID:          runID,
		Screens:        []ScreenEntry{},
		Flows:          []FlowEntry{},
		Viewports:      cfg.Viewports,
		States:         cfg.States,
		DiscoveredURLs: []string{},
	}
}

// AddScreen appends a screen entry. Entries appear in execution order.
func (m *Manifest) AddScreen(entry ScreenEntry) {
	m.Screens = append(m.Screens, entry)
}

// AddFlow appends a flow entry.
func (m *Manifest) AddFlow(entry FlowEntry) {
	m.Flows = append(m.Flows, entry)
}

// Discover records a navigation target. "about:" URLs and duplicates are
// dropped; the serialized list stays sorted for deterministic output.
func (m *Manifest) Discover(url string) {
	if url == "" || strings.HasPrefix(url, "about:") {
		return
	}
	if m.discovered == nil {
		m.discovered = make(map[string]bool)
	}
	if m.discovered[url] {
		return
	}
	m.discovered[url] = true
	m.DiscoveredURLs = append(m.DiscoveredURLs, url)
	sort.Strings(m.DiscoveredURLs)
}

// EntryID derives a manifest entry id from a base id and the state and
// viewport it was captured under.
func EntryID(base, stateID, viewportID string) string {
	return base + "-" + stateID + "-" + viewportID
}
