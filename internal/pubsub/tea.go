package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd creates a Bubble Tea command that waits for the next event on a channel.
// Returns the event as a tea.Msg when received.
// Returns nil if the context is cancelled or the channel is closed.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return ListenCmdFunc(ctx, ch, func(e Event[T]) tea.Msg { return e })
}

// ListenCmdFunc is ListenCmd with a conversion from the event to the message
// delivered to the update loop.
func ListenCmdFunc[T any](ctx context.Context, ch <-chan Event[T], toMsg func(Event[T]) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return toMsg(event)
		}
	}
}

// ContinuousListener maintains subscription state for the Bubble Tea update loop.
// Call Listen again after handling each event to keep receiving.
type ContinuousListener[T any] struct {
	ctx   context.Context
	ch    <-chan Event[T]
	toMsg func(Event[T]) tea.Msg
}

// NewContinuousListener creates a new listener that subscribes to the broker.
// The subscription is automatically cleaned up when the context is cancelled.
func NewContinuousListener[T any](ctx context.Context, broker *Broker[T]) *ContinuousListener[T] {
	return NewMappedListener(ctx, broker, func(e Event[T]) tea.Msg { return e })
}

// NewMappedListener creates a listener whose Listen command delivers toMsg(event).
func NewMappedListener[T any](ctx context.Context, broker *Broker[T], toMsg func(Event[T]) tea.Msg) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx:   ctx,
		ch:    broker.Subscribe(ctx),
		toMsg: toMsg,
	}
}

// Listen returns a tea.Cmd that waits for the next event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	return ListenCmdFunc(l.ctx, l.ch, l.toMsg)
}
