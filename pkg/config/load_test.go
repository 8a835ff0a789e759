package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	t.Run("decodes a full overlay", func(t *testing.T) {
		cfg, err := Parse([]byte(`{
			"app": {"baseUrl": "http://localhost:3000"},
			"output": {"dir": "shots", "title": "My App"},
			"viewports": [{"id": "mobile", "name": "Mobile", "width": 390, "height": 844}],
			"screens": [
				{"id": "item", "name": "Item", "template": "/item/:id",
				 "params": {"id": ["a", "b"]},
				 "ready": {"selector": {"testId": "item-title"}}}
			],
			"flows": [
				{"id": "checkout", "name": "Checkout", "steps": [
					{"type": "goto", "url": "/cart"},
					{"type": "click", "selector": {"role": "button", "name": "Pay"}},
					{"type": "capture", "name": "Paid"}
				]}
			]
		}`), FormatJSON)
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:3000", cfg.App.BaseURL)
		assert.Equal(t, "mobile", cfg.Viewports[0].ID)
		assert.Equal(t, []string{"id"}, cfg.Screens[0].Params.Keys())
		assert.Equal(t, []string{"a", "b"}, cfg.Screens[0].Params.Values("id"))
		assert.Equal(t, StepCapture, cfg.Flows[0].Steps[2].Type)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := Parse([]byte(`{"screnes": []}`), FormatJSON)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("rejects schema violations without coercion", func(t *testing.T) {
		_, err := Parse([]byte(`{"viewports": [{"id": "d", "width": 0, "height": 700}]}`), FormatJSON)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "viewports[0].width", vErr.Field)
	})
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(`
app:
  baseUrl: http://localhost:3000
screens:
  - id: item
    name: Item
    template: /item/{id}
    params:
      id: [a, b]
      tab: [info]
`), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "tab"}, cfg.Screens[0].Params.Keys())
}

func TestParamsKeyOrder(t *testing.T) {
	// Expansion order follows the document, not lexicographic order.
	cfg, err := Parse([]byte(`{
		"screens": [{"id": "s", "name": "S", "template": "/:z/:a",
			"params": {"z": ["1"], "a": ["2"]}}]
	}`), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a"}, cfg.Screens[0].Params.Keys())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, OverlayFileName)

	cfg := validConfig()
	// Setup hooks carry json:"-"; Save succeeds and drops them.
	cfg.States[0].Setup = func(page playwright.Page) error { return nil }
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Screens, loaded.Screens)
	assert.Equal(t, cfg.Viewports, loaded.Viewports)

	// No temp file left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
