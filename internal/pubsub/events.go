// Package pubsub provides a generic publish/subscribe event system used to
// notify observers of workspace state changes and to stream log lines.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
// Packages define their own values; the generic ones below cover plain CRUD notifications.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Observable registers synchronous observers.
type Observable[T any] interface {
	Observe(fn func(Event[T])) (cancel func())
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

var (
	_ Subscriber[string] = (*Broker[string])(nil)
	_ Observable[string] = (*Broker[string])(nil)
	_ Publisher[string]  = (*Broker[string])(nil)
)
