package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/workspace/domain"
)

func TestModelRegistry_CreateDuplicate(t *testing.T) {
	s := NewState(nil, nil)

	m, err := s.Models.Create("f1", "main.go", "go", "package main")
	require.NoError(t, err)
	require.Equal(t, "go", m.Language())

	_, err = s.Models.Create("f1", "main.go", "go", "other")
	require.ErrorIs(t, err, domain.ErrDuplicateModel)

	got, ok := s.Models.Get("f1")
	require.True(t, ok)
	require.Same(t, m, got)
	require.Equal(t, "package main", got.Content(), "duplicate create must not overwrite content")
	require.Equal(t, 1, s.Models.Len())
}

func TestModelRegistry_DisposeInUse(t *testing.T) {
	s := NewState(nil, nil)
	_, _ = s.Panes.Add()
	_, err := s.Models.Create("f1", "a.txt", "plaintext", "")
	require.NoError(t, err)
	require.NoError(t, s.Bindings.Bind(0, "f1"))

	err = s.Models.Dispose("f1")
	require.ErrorIs(t, err, domain.ErrModelInUse)
	var inUse *domain.ModelInUseError
	require.ErrorAs(t, err, &inUse)
	require.Equal(t, []domain.SlotID{0}, inUse.Slots)
	require.Equal(t, 1, s.Models.Len())

	s.Bindings.Unbind(0)
	require.NoError(t, s.Models.Dispose("f1"))
	require.Equal(t, 0, s.Models.Len())
}

func TestModelRegistry_DisposeUnknownIsNoop(t *testing.T) {
	s := NewState(nil, nil)
	require.NoError(t, s.Models.Dispose("missing"))
}

func TestModelRegistry_ForwardsContentToSink(t *testing.T) {
	sink := newMemSink()
	s := NewState(sink, nil)
	m, err := s.Models.Create("f1", "a.txt", "plaintext", "")
	require.NoError(t, err)

	m.SetContent("hello")
	require.Equal(t, "hello", sink.content["f1"])
}

func TestModelRegistry_IDsSorted(t *testing.T) {
	s := NewState(nil, nil)
	for _, id := range []domain.FileID{"c", "a", "b"} {
		_, err := s.Models.Create(id, string(id), "plaintext", "")
		require.NoError(t, err)
	}
	require.Equal(t, []domain.FileID{"a", "b", "c"}, s.Models.IDs())

	s.Models.Clear()
	require.Equal(t, 0, s.Models.Len())
}

type lookupMap map[domain.FileID]string

func (l lookupMap) Lookup(id domain.FileID) (domain.FileDescriptor, bool) {
	content, ok := l[id]
	return domain.FileDescriptor{ID: id, Content: content}, ok
}

func TestModelRegistry_Refresh(t *testing.T) {
	sink := newMemSink()
	rec := newEventRecorder(t)
	s := NewState(sink, rec.broker)
	for _, id := range []domain.FileID{"a", "b", "c"} {
		_, err := s.Models.Create(id, string(id), "plaintext", "old")
		require.NoError(t, err)
	}

	refreshed := s.Models.Refresh(lookupMap{"a": "new", "b": "old"})

	require.Equal(t, []domain.FileID{"a"}, refreshed)
	a, _ := s.Models.Get("a")
	require.Equal(t, "new", a.Content())
	c, _ := s.Models.Get("c")
	require.Equal(t, "old", c.Content(), "files missing from the working copy are left alone")
	require.Empty(t, sink.content, "refresh does not write to the sink")
	require.Contains(t, rec.types(), EventModelRefreshed)

	require.Nil(t, s.Models.Refresh(nil))
}
