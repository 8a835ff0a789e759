package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Viewports: []Viewport{{ID: "desktop", Width: 1280, Height: 720}},
		States:    []State{{ID: "default"}},
		Screens:   []Screen{{ID: "home", Name: "Home", URL: "/"}},
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a well-formed config", func(t *testing.T) {
		cfg := validConfig()
		assert.NoError(t, Validate(&cfg))
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "zero viewport width",
			mutate: func(c *Config) { c.Viewports[0].Width = 0 },
			field:  "viewports[0].width",
		},
		{
			name:   "negative viewport height",
			mutate: func(c *Config) { c.Viewports[0].Height = -1 },
			field:  "viewports[0].height",
		},
		{
			name: "duplicate viewport ids",
			mutate: func(c *Config) {
				c.Viewports = append(c.Viewports, Viewport{ID: "desktop", Width: 1, Height: 1})
			},
			field: "viewports[1].id",
		},
		{
			name:   "url and template together",
			mutate: func(c *Config) { c.Screens[0].Template = "/item/:id" },
			field:  "screens[0]",
		},
		{
			name: "template param with no values",
			mutate: func(c *Config) {
				c.Screens[0].URL = ""
				c.Screens[0].Template = "/item/:id"
				c.Screens[0].Params = NewParams(ParamPair{Key: "id", Values: []string{}})
			},
			field: "screens[0].params.id",
		},
		{
			name: "selector with two variants",
			mutate: func(c *Config) {
				c.Screens[0].Ready = &ReadySpec{Selector: &SelectorSpec{TestID: "a", CSS: ".b"}}
			},
			field: "screens[0].ready.selector",
		},
		{
			name: "ready with selector and timeout",
			mutate: func(c *Config) {
				c.Screens[0].Ready = &ReadySpec{Selector: &SelectorSpec{CSS: ".x"}, TimeoutMs: 100}
			},
			field: "screens[0].ready",
		},
		{
			name: "goto without url",
			mutate: func(c *Config) {
				c.Flows = []Flow{{ID: "f", Steps: []FlowStep{{Type: StepGoto}}}}
			},
			field: "flows[0].steps[0].url",
		},
		{
			name: "fill without value",
			mutate: func(c *Config) {
				c.Flows = []Flow{{ID: "f", Steps: []FlowStep{{
					Type:     StepFill,
					Selector: &SelectorSpec{TestID: "email"},
				}}}}
			},
			field: "flows[0].steps[0].value",
		},
		{
			name: "press without key",
			mutate: func(c *Config) {
				c.Flows = []Flow{{ID: "f", Steps: []FlowStep{{
					Type:     StepPress,
					Selector: &SelectorSpec{CSS: "input"},
				}}}}
			},
			field: "flows[0].steps[0].key",
		},
		{
			name: "waitFor with selector and timeout",
			mutate: func(c *Config) {
				c.Flows = []Flow{{ID: "f", Steps: []FlowStep{{
					Type:      StepWaitFor,
					Selector:  &SelectorSpec{CSS: ".x"},
					TimeoutMs: 50,
				}}}}
			},
			field: "flows[0].steps[0]",
		},
		{
			name: "unknown step type",
			mutate: func(c *Config) {
				c.Flows = []Flow{{ID: "f", Steps: []FlowStep{{Type: "hover"}}}}
			},
			field: "flows[0].steps[0].type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Validate(&cfg)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestSelectorSpecValidate(t *testing.T) {
	assert.NoError(t, SelectorSpec{TestID: "save"}.Validate())
	assert.NoError(t, SelectorSpec{Role: "button", Name: "Save"}.Validate())
	assert.Error(t, SelectorSpec{}.Validate(), "empty selector")
	assert.Error(t, SelectorSpec{TestID: "a", Text: "b"}.Validate(), "two variants")
	assert.Error(t, SelectorSpec{Text: "x", Name: "y"}.Validate(), "name without role")
}

func TestSelectorSpecKind(t *testing.T) {
	assert.Equal(t, SelectorTestID, SelectorSpec{TestID: "a"}.Kind())
	assert.Equal(t, SelectorRole, SelectorSpec{Role: "button"}.Kind())
	assert.Equal(t, SelectorText, SelectorSpec{Text: "Save"}.Kind())
	assert.Equal(t, SelectorCSS, SelectorSpec{CSS: ".save"}.Kind())
}

func TestScreenFilters(t *testing.T) {
	t.Run("empty filter matches all", func(t *testing.T) {
		s := Screen{ID: "home"}
		assert.True(t, s.MatchesState("anything"))
		assert.True(t, s.MatchesViewport("anything"))
	})

	t.Run("filter includes only listed ids", func(t *testing.T) {
		s := Screen{ID: "admin", States: []string{"prod"}}
		assert.True(t, s.MatchesState("prod"))
		assert.False(t, s.MatchesState("default"))
	})
}

func TestScreenPath(t *testing.T) {
	assert.Equal(t, "/", Screen{}.Path())
	assert.Equal(t, "/pricing", Screen{URL: "/pricing"}.Path())
	assert.Equal(t, "/item/:id", Screen{Template: "/item/:id"}.Path())
}
