package terminal

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPane_AppendAndView(t *testing.T) {
	p := New()
	p.SetBounds(40, 3)
	p.Resize()

	p.Append("first")
	p.Append("second\n")

	assert.Equal(t, []string{"first", "second"}, p.Lines())
	view := p.View()
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "second")
}

func TestPane_FollowsOutput(t *testing.T) {
	p := New()
	p.SetBounds(20, 2)
	p.Resize()

	for i := 0; i < 10; i++ {
		p.Append(fmt.Sprintf("line %d", i))
	}

	view := p.View()
	assert.Contains(t, view, "line 9")
	assert.NotContains(t, view, "line 0")
}

func TestPane_TrimsScrollback(t *testing.T) {
	p := New()
	p.maxLines = 3
	for i := 0; i < 5; i++ {
		p.Append(fmt.Sprintf("l%d", i))
	}
	assert.Equal(t, []string{"l2", "l3", "l4"}, p.Lines())
}

func TestPane_ResizeAppliesBoundsAndRewraps(t *testing.T) {
	p := New()
	p.Append(strings.Repeat("x", 30))

	p.SetBounds(10, 5)
	assert.Equal(t, 0, p.Resizes(), "SetBounds alone does not resize")

	p.Resize()
	assert.Equal(t, 1, p.Resizes())

	lines := strings.Split(p.View(), "\n")
	require.Len(t, lines, 5)
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 10)
	}
	assert.Contains(t, lines[0]+lines[1]+lines[2], strings.Repeat("x", 10))
}
