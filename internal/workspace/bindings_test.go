package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panecode/internal/workspace/domain"
)

func TestBindingTable_BindRequiresModel(t *testing.T) {
	s := NewState(nil, nil)

	err := s.Bindings.Bind(0, "ghost")
	require.ErrorIs(t, err, domain.ErrUnboundModel)
	_, ok := s.Bindings.Get(0)
	require.False(t, ok, "rejected bind must not mutate the table")
}

func TestBindingTable_BindOverwritesOnlyThatSlot(t *testing.T) {
	s := NewState(nil, nil)
	_, _ = s.Models.Create("a", "a.go", "go", "")
	_, _ = s.Models.Create("b", "b.go", "go", "")

	require.NoError(t, s.Bindings.Bind(0, "a"))
	require.NoError(t, s.Bindings.Bind(1, "a"))
	require.NoError(t, s.Bindings.Bind(1, "b"))

	id0, _ := s.Bindings.Get(0)
	id1, _ := s.Bindings.Get(1)
	require.Equal(t, domain.FileID("a"), id0, "slot 0 keeps its binding")
	require.Equal(t, domain.FileID("b"), id1)
	require.Equal(t, []domain.SlotID{0}, s.Bindings.References("a"))
}

func TestBindingTable_InvalidSlot(t *testing.T) {
	s := NewState(nil, nil)
	_, _ = s.Models.Create("a", "a.go", "go", "")
	require.ErrorIs(t, s.Bindings.Bind(3, "a"), domain.ErrInvalidSlot)
}

func TestBindingTable_Clear(t *testing.T) {
	rec := newEventRecorder(t)
	s := NewState(nil, rec.broker)
	_, _ = s.Models.Create("a", "a.go", "go", "")
	require.NoError(t, s.Bindings.Bind(0, "a"))
	require.NoError(t, s.Bindings.Bind(2, "a"))
	rec.reset()

	s.Bindings.Clear()
	s.Bindings.Unbind(1)

	require.Empty(t, s.Bindings.References("a"))
	require.Equal(t, []pubsubType{EventUnbound, EventUnbound}, rec.types())
}
