package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m, cmd := New().Show("Saved 2 files", StyleSuccess, time.Millisecond)

	require.NotNil(t, cmd)
	assert.True(t, m.Visible())
	assert.Equal(t, "Saved 2 files", m.Message())
	assert.Contains(t, m.View(), "Saved 2 files")
}

func TestDismiss(t *testing.T) {
	m, cmd := New().Show("Hello", StyleInfo, time.Millisecond)

	m = m.Update(cmd())

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestDismiss_StaleTimerIgnored(t *testing.T) {
	m, first := New().Show("First", StyleSuccess, time.Millisecond)
	m, _ = m.Show("Second", StyleError, time.Hour)

	m = m.Update(first())

	assert.True(t, m.Visible(), "an older timer must not hide a newer toast")
	assert.Contains(t, m.View(), "Second")
	assert.NotContains(t, m.View(), "First")
}

func TestView_StylesDiffer(t *testing.T) {
	for _, style := range []Style{StyleSuccess, StyleError, StyleInfo, StyleWarn} {
		m, _ := New().Show("msg", style, time.Second)
		assert.Contains(t, m.View(), "msg")
	}
}

func TestOverlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 30)+"\n", 8), "\n")

	assert.Equal(t, bg, New().Overlay(bg, 30, 8), "hidden toast leaves the view untouched")

	m, _ := New().Show("done", StyleSuccess, time.Second)
	out := m.Overlay(bg, 30, 8)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, strings.Repeat(".", 30), lines[7])
	assert.Contains(t, lines[5], "done")
}
