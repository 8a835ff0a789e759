package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
	}{
		{"relative joins base", "http://localhost:3000", "/pricing", "http://localhost:3000/pricing"},
		{"trailing slash collapses", "http://localhost:3000/", "/pricing", "http://localhost:3000/pricing"},
		{"bare path gets slash", "http://localhost:3000", "pricing", "http://localhost:3000/pricing"},
		{"absolute passes through", "http://localhost:3000", "https://other.test/x", "https://other.test/x"},
		{"no base keeps path", "", "/pricing", "/pricing"},
		{"root path", "http://localhost:3000", "/", "http://localhost:3000/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.baseURL, tt.path))
		})
	}
}
