package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/mocks"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

func TestEditorRegistry_AttachReplacesAndDisposes(t *testing.T) {
	s := NewState(nil, nil)
	_, _ = s.Panes.Add()
	first, second := newFakeSurface("first"), newFakeSurface("second")

	require.NoError(t, s.Editors.Attach(0, first))
	require.NoError(t, s.Editors.Attach(0, first))
	require.Equal(t, 0, first.disposed, "re-attaching the same surface is a no-op")

	require.NoError(t, s.Editors.Attach(0, second))
	require.Equal(t, 1, first.disposed)
	got, ok := s.Editors.Get(0)
	require.True(t, ok)
	require.Same(t, second, got)
}

func TestEditorRegistry_AttachRejectsHiddenPane(t *testing.T) {
	s := NewState(nil, nil)
	err := s.Editors.Attach(1, newFakeSurface("x"))
	require.ErrorIs(t, err, domain.ErrPaneHidden)
	require.Equal(t, 0, s.Editors.Len())

	_, _ = s.Panes.Add()
	require.Error(t, s.Editors.Attach(0, nil))
	require.ErrorIs(t, s.Editors.Attach(7, newFakeSurface("y")), domain.ErrInvalidSlot)
}

func TestEditorRegistry_AllKeepsEmptySlots(t *testing.T) {
	s := NewState(nil, nil)
	_, _ = s.Panes.Add()
	_, _ = s.Panes.Add()
	surface := newFakeSurface("b")
	require.NoError(t, s.Editors.Attach(1, surface))

	all := s.Editors.All()
	require.Nil(t, all[0])
	require.Same(t, surface, all[1])
	require.Nil(t, all[2])
}

func TestEditorRegistry_DisposeAllSwallowsPanics(t *testing.T) {
	s := NewState(nil, nil)
	_, _ = s.Panes.Add()
	_, _ = s.Panes.Add()
	bad, good := newFakeSurface("bad"), newFakeSurface("good")
	bad.panicking = true
	require.NoError(t, s.Editors.Attach(0, bad))
	require.NoError(t, s.Editors.Attach(1, good))

	require.NotPanics(t, s.Editors.DisposeAll)
	require.Equal(t, 0, s.Editors.Len())
	require.Equal(t, 1, good.disposed)

	require.NotPanics(t, s.Editors.DisposeAll)
	require.Equal(t, 1, good.disposed, "detached surfaces are not disposed again")
}

func TestEditorRegistry_BroadcastResize(t *testing.T) {
	rec := newEventRecorder(t)
	s := NewState(nil, rec.broker)
	_, _ = s.Panes.Add()
	surface := newFakeSurface("a")
	require.NoError(t, s.Editors.Attach(0, surface))

	terminal := &mocks.MockTerminal{}
	terminal.On("Resize").Once()

	s.Editors.BroadcastResize(terminal, 80, 20)

	terminal.AssertExpectations(t)
	require.Equal(t, [][2]int{{80, 20}}, surface.resized)
	require.Contains(t, rec.types(), EventLayoutResized)

	require.NotPanics(t, func() { s.Editors.BroadcastResize(nil, 10, 10) })
}
