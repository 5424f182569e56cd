package pubsub

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	paneShown  EventType = "pane_shown"
	paneHidden EventType = "pane_hidden"
)

type slotChange struct {
	Slot    int
	Visible bool
}

func TestListenCmd_DeliversEventAsMsg(t *testing.T) {
	broker := NewBroker[slotChange]()
	defer broker.Close()

	ch := broker.Subscribe(t.Context())
	broker.Publish(paneShown, slotChange{Slot: 1, Visible: true})

	msg := ListenCmd(t.Context(), ch)()

	event, ok := msg.(Event[slotChange])
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, paneShown, event.Type)
	assert.Equal(t, slotChange{Slot: 1, Visible: true}, event.Payload)
	assert.False(t, event.Timestamp.IsZero())
}

func TestListenCmd_ReturnsNil(t *testing.T) {
	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		ch := make(chan Event[string])
		cancel()

		assert.Nil(t, ListenCmd(ctx, ch)())
	})

	t.Run("channel closed", func(t *testing.T) {
		ch := make(chan Event[string])
		close(ch)

		assert.Nil(t, ListenCmd(context.Background(), ch)())
	})
}

func TestContinuousListener_KeepsOrder(t *testing.T) {
	broker := NewBroker[slotChange]()
	defer broker.Close()

	listener := NewContinuousListener(t.Context(), broker)

	published := []Event[slotChange]{
		{Type: paneShown, Payload: slotChange{Slot: 1, Visible: true}},
		{Type: paneShown, Payload: slotChange{Slot: 2, Visible: true}},
		{Type: paneHidden, Payload: slotChange{Slot: 1}},
	}
	for _, e := range published {
		broker.Publish(e.Type, e.Payload)
	}

	for i, want := range published {
		msg := listener.Listen()()
		got, ok := msg.(Event[slotChange])
		require.True(t, ok, "event %d: got %T", i, msg)
		assert.Equal(t, want.Type, got.Type, "event %d", i)
		assert.Equal(t, want.Payload, got.Payload, "event %d", i)
	}
}

type logLineMsg string

func TestMappedListener_ConvertsEvents(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	listener := NewMappedListener(t.Context(), broker, func(e Event[string]) tea.Msg {
		return logLineMsg(string(e.Type) + ": " + e.Payload)
	})

	broker.Publish(UpdatedEvent, "main.go")

	assert.Equal(t, logLineMsg("updated: main.go"), listener.Listen()())
}
