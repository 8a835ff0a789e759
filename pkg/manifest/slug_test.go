package manifest

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Home", "home"},
		{"Checkout Step 2", "checkout-step-2"},
		{"  spaced  out  ", "spaced-out"},
		{"/item/:id", "item-id"},
		{"Ünïcode?!", "n-code"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Home Page", "item/:id variant-2", "already-a-slug", strings.Repeat("long words ", 20)}

	shape := regexp.MustCompile(`^[a-z0-9-]{0,80}$`)
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "slugify must be idempotent for %q", in)
		assert.Regexp(t, shape, once)
		assert.False(t, strings.HasPrefix(once, "-"))
		assert.False(t, strings.HasSuffix(once, "-"))
	}
}

func TestSlugifyTruncates(t *testing.T) {
	slug := Slugify(strings.Repeat("abc ", 40))
	assert.LessOrEqual(t, len(slug), 80)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestFileSafeName(t *testing.T) {
	assert.Equal(t, "home-default-desktop.png", FileSafeName("home-default-desktop"))
	assert.Equal(t, "saved-flow-1.png", FileSafeName("Saved Flow 1"))
}
