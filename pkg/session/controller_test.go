package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/screenboard/pkg/config"
)

func TestNeedsNewContext(t *testing.T) {
	tests := []struct {
		name                  string
		exists                bool
		curState, curViewport string
		reqState, reqViewport string
		want                  bool
	}{
		{"no context yet", false, "", "", "default", "desktop", true},
		{"same state and viewport reuses", true, "default", "desktop", "default", "desktop", false},
		{"state change recreates", true, "default", "desktop", "admin", "desktop", true},
		{"viewport change recreates", true, "default", "desktop", "default", "mobile", true},
		{"both change recreates", true, "default", "desktop", "admin", "mobile", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := needsNewContext(tt.exists, tt.curState, tt.curViewport, tt.reqState, tt.reqViewport)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdleController(t *testing.T) {
	c := New(config.Config{}, Options{})

	t.Run("status reports disconnected", func(t *testing.T) {
		s := c.Status()
		assert.False(t, s.Connected)
		assert.False(t, s.Recording)
		assert.Empty(t, s.URL)
	})

	t.Run("goto requires a launch", func(t *testing.T) {
		assert.ErrorIs(t, c.Goto("/pricing"), ErrNotLaunched)
	})

	t.Run("capture without a name fails before any session work", func(t *testing.T) {
		_, _, err := c.Capture(CaptureOptions{URL: "/pricing"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotLaunched)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("named capture still requires a launch", func(t *testing.T) {
		_, _, err := c.Capture(CaptureOptions{Name: "Pricing"})
		assert.ErrorIs(t, err, ErrNotLaunched)
	})

	t.Run("validateSelector requires a launch", func(t *testing.T) {
		_, err := c.ValidateSelector(config.SelectorSpec{CSS: ".x"})
		assert.ErrorIs(t, err, ErrNotLaunched)
	})

	t.Run("startRecording requires a launch", func(t *testing.T) {
		assert.ErrorIs(t, c.StartRecording("x"), ErrNotLaunched)
	})

	t.Run("stopRecording without a recorder is nil", func(t *testing.T) {
		assert.Nil(t, c.StopRecording())
	})

	t.Run("close from idle is safe", func(t *testing.T) {
		c.Close()
		assert.False(t, c.Status().Connected)
	})
}

func TestControllerConfig(t *testing.T) {
	c := New(config.Config{
		App: config.App{BaseURL: "http://localhost:3000"},
	}, Options{})

	t.Run("config is normalized on construction", func(t *testing.T) {
		cfg := c.Config()
		require.Len(t, cfg.Viewports, 1)
		assert.Equal(t, "desktop", cfg.Viewports[0].ID)
	})

	t.Run("updateConfig replaces and normalizes", func(t *testing.T) {
		c.UpdateConfig(config.Config{
			Viewports: []config.Viewport{{ID: "mobile", Width: 390, Height: 844}},
		})

		cfg := c.Config()
		require.Len(t, cfg.Viewports, 1)
		assert.Equal(t, "mobile", cfg.Viewports[0].ID)
		assert.Len(t, cfg.States, 1, "states defaulted")
	})

	t.Run("status keeps base url from construction", func(t *testing.T) {
		assert.Equal(t, "http://localhost:3000", c.Status().BaseURL)
	})

	t.Run("appendFlow accumulates", func(t *testing.T) {
		c.AppendFlow(config.Flow{ID: "checkout", Name: "Checkout"})
		c.AppendFlow(config.Flow{ID: "signup", Name: "Signup"})

		cfg := c.Config()
		require.Len(t, cfg.Flows, 2)
		assert.Equal(t, "signup", cfg.Flows[1].ID)
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/screenboard.json"

	c := New(config.Config{}, Options{SavePath: path})
	require.NoError(t, c.Save(nil))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "desktop", loaded.Viewports[0].ID)

	t.Run("save with next replaces working config", func(t *testing.T) {
		require.NoError(t, c.Save(&config.Config{
			Output: config.Output{Title: "Replaced"},
		}))
		assert.Equal(t, "Replaced", c.Config().Output.Title)
	})
}
