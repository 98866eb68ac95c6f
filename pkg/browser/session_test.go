package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentReady(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		// A login that completes in place leaves the document in one of the
		// post-DOMContentLoaded states; readiness must be recognized from
		// state alone, with no further event expected.
		{"interactive", true},
		{"complete", true},
		{"loading", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, documentReady(tc.state), tc.state)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, 1280, opts.Width)
	assert.Equal(t, 800, opts.Height)

	opts = Options{Width: 1920, Height: 1080}.withDefaults()
	assert.Equal(t, 1920, opts.Width)
	assert.Equal(t, 1080, opts.Height)
}
