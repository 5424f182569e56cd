package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/workspace/domain"
)

type recordingSink struct {
	writes map[domain.FileID]string
}

func (s *recordingSink) WriteContent(id domain.FileID, content string) {
	if s.writes == nil {
		s.writes = map[domain.FileID]string{}
	}
	s.writes[id] = content
}

func typeText(s *Surface, text string) {
	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestSurface_SetModel(t *testing.T) {
	s := New(1)
	m := domain.NewModel("demo:main.go", "main.go", "go", "package main", nil)

	s.SetModel(m)

	assert.Same(t, m, s.Model())
	assert.Equal(t, domain.SlotID(1), s.Slot())
	assert.Equal(t, "main.go", s.Title())
	assert.Equal(t, "go", s.Language())
	assert.Contains(t, s.View(), "package main")
}

func TestSurface_EditsWriteThroughModel(t *testing.T) {
	sink := &recordingSink{}
	m := domain.NewModel("f", "notes.md", "markdown", "hello", sink)
	s := New(0)
	s.SetModel(m)
	s.Focus()

	typeText(s, "!")

	assert.Equal(t, "hello!", m.Content())
	assert.Equal(t, "hello!", sink.writes["f"])
	assert.Equal(t, 1, m.Version())
}

func TestSurface_UnfocusedIgnoresKeys(t *testing.T) {
	m := domain.NewModel("f", "notes.md", "markdown", "hello", nil)
	s := New(0)
	s.SetModel(m)

	typeText(s, "x")

	assert.Equal(t, "hello", m.Content())
	assert.Equal(t, 0, m.Version())
}

func TestSurface_SyncSharedModel(t *testing.T) {
	m := domain.NewModel("f", "notes.md", "markdown", "hello", nil)
	left, right := New(0), New(1)
	left.SetModel(m)
	right.SetModel(m)
	left.Focus()

	typeText(left, " world")

	assert.False(t, left.Sync(), "the editing surface is already current")
	require.True(t, right.Sync())
	assert.Contains(t, right.View(), "hello world")
	assert.False(t, right.Sync(), "second sync is a no-op")
}

func TestSurface_DisposeIsIdempotent(t *testing.T) {
	m := domain.NewModel("f", "a.txt", "plaintext", "x", nil)
	s := New(2)
	s.SetModel(m)

	s.Dispose()
	s.Dispose()

	assert.True(t, s.Disposed())
	assert.Nil(t, s.Model())
	assert.Nil(t, s.Focus())
	assert.Nil(t, s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}))
	assert.False(t, s.Sync())
	assert.Equal(t, "x", m.Content(), "disposing a surface never touches the Model")

	s.SetModel(m)
	assert.Nil(t, s.Model(), "a disposed surface cannot be reused")
}

func TestSurface_SetNilModelClears(t *testing.T) {
	s := New(0)
	s.SetModel(domain.NewModel("f", "a.txt", "plaintext", "content", nil))

	s.SetModel(nil)

	assert.Nil(t, s.Model())
	assert.Empty(t, s.Title())
	assert.NotContains(t, s.View(), "content")
}

func TestSurface_Resize(t *testing.T) {
	s := New(0)
	s.Resize(30, 5)

	assert.Equal(t, 5, s.input.Height())
	assert.LessOrEqual(t, s.input.Width(), 30)

	s.Resize(0, 0)
	assert.Equal(t, 1, s.input.Height())
}

func TestSurface_FocusBlur(t *testing.T) {
	s := New(0)
	s.SetModel(domain.NewModel("f", "a.txt", "plaintext", "", nil))

	s.Focus()
	assert.True(t, s.Focused())
	s.Blur()
	assert.False(t, s.Focused())
}

func TestSurface_StatsCountsGraphemes(t *testing.T) {
	s := New(0)
	lines, chars := s.Stats()
	assert.Zero(t, lines)
	assert.Zero(t, chars)

	// "e" followed by a combining acute accent is one character.
	s.SetModel(domain.NewModel("f", "notes.md", "markdown", "cafe\u0301\nok", nil))

	lines, chars = s.Stats()
	assert.Equal(t, 2, lines)
	assert.Equal(t, 7, chars)
}
