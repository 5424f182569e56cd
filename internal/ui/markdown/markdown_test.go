package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	r, err := New(40, "dark")
	require.NoError(t, err)
	assert.Equal(t, 40, r.Width())

	out, err := r.Render("# Panes\n\nDrag a **file** onto a pane.")
	require.NoError(t, err)
	assert.Contains(t, out, "Panes")
	assert.Contains(t, out, "file")
}

func TestRenderer_LightAndDefaultStyles(t *testing.T) {
	for _, style := range []string{"", "light"} {
		r, err := New(30, style)
		require.NoError(t, err, "style %q", style)
		out, err := r.Render("- item")
		require.NoError(t, err)
		assert.Contains(t, out, "item")
	}
}
