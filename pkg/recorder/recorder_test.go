package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/screenboard/pkg/config"
)

func TestStartStop(t *testing.T) {
	t.Run("stop without start returns nil", func(t *testing.T) {
		r := New(nil)
		assert.Nil(t, r.Stop())
	})

	t.Run("flow is keyed by a slug of the name", func(t *testing.T) {
		r := New(nil)
		r.Start("Checkout Flow!")

		f := r.Stop()
		require.NotNil(t, f)
		assert.Equal(t, "checkout-flow", f.ID)
		assert.Equal(t, "Checkout Flow!", f.Name)
		assert.Empty(t, f.Steps)
	})

	t.Run("second stop returns nil", func(t *testing.T) {
		r := New(nil)
		r.Start("x")
		require.NotNil(t, r.Stop())
		assert.Nil(t, r.Stop())
	})

	t.Run("recording flag tracks state", func(t *testing.T) {
		r := New(nil)
		assert.False(t, r.Recording())
		r.Start("x")
		assert.True(t, r.Recording())
		r.Stop()
		assert.False(t, r.Recording())
	})
}

func TestRecordNavigation(t *testing.T) {
	t.Run("distinct navigations become goto steps", func(t *testing.T) {
		r := New(nil)
		r.Start("nav")

		r.recordNavigation("http://app.test/")
		r.recordNavigation("http://app.test/settings")

		f := r.Stop()
		require.Len(t, f.Steps, 2)
		assert.Equal(t, config.StepGoto, f.Steps[0].Type)
		assert.Equal(t, "http://app.test/", f.Steps[0].URL)
		assert.Equal(t, "http://app.test/settings", f.Steps[1].URL)
	})

	t.Run("dedup is against the immediately preceding url only", func(t *testing.T) {
		r := New(nil)
		r.Start("nav")

		r.recordNavigation("http://app.test/a")
		r.recordNavigation("http://app.test/a")
		r.recordNavigation("http://app.test/b")
		r.recordNavigation("http://app.test/a")

		f := r.Stop()
		require.Len(t, f.Steps, 3)
		assert.Equal(t, "http://app.test/a", f.Steps[2].URL)
	})

	t.Run("inactive recorder ignores navigations", func(t *testing.T) {
		r := New(nil)
		r.recordNavigation("http://app.test/")
		r.Start("nav")

		f := r.Stop()
		assert.Empty(t, f.Steps)
	})
}

func TestRecordClick(t *testing.T) {
	t.Run("payload maps onto a selector spec", func(t *testing.T) {
		r := New(nil)
		r.Start("clicks")

		r.recordClick(map[string]interface{}{"testId": "save-settings"})
		r.recordClick(map[string]interface{}{"role": "button", "name": "Save"})
		r.recordClick(map[string]interface{}{"css": "#main"})

		f := r.Stop()
		require.Len(t, f.Steps, 3)
		assert.Equal(t, config.StepClick, f.Steps[0].Type)
		assert.Equal(t, "save-settings", f.Steps[0].Selector.TestID)
		assert.Equal(t, "button", f.Steps[1].Selector.Role)
		assert.Equal(t, "Save", f.Steps[1].Selector.Name)
		assert.Equal(t, "#main", f.Steps[2].Selector.CSS)
	})

	t.Run("garbage payloads are dropped", func(t *testing.T) {
		r := New(nil)
		r.Start("clicks")

		r.recordClick(nil)
		r.recordClick("not an object")
		r.recordClick(map[string]interface{}{})
		r.recordClick(map[string]interface{}{"testId": 42})

		f := r.Stop()
		assert.Empty(t, f.Steps)
	})
}

func TestRestartClearsBuffer(t *testing.T) {
	r := New(nil)
	r.Start("first")
	r.recordNavigation("http://app.test/")

	r.Start("second")
	f := r.Stop()
	require.NotNil(t, f)
	assert.Equal(t, "second", f.ID)
	assert.Empty(t, f.Steps)
}
