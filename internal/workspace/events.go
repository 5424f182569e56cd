// Package workspace implements the pane workspace session controller: the model
// registry, pane visibility, active bindings, editor handles, drag-and-drop
// reassignment and the session lifecycle that ties them together.
//
// All arenas are keyed by SlotID or FileID and store keys rather than references
// to each other. They are not safe for concurrent use on their own; the Manager
// serialises every mutation.
package workspace

import (
	"github.com/zjrosen/panecode/internal/pubsub"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// Workspace event types.
const (
	EventPaneShown        pubsub.EventType = "pane.shown"
	EventPaneHidden       pubsub.EventType = "pane.hidden"
	EventBound            pubsub.EventType = "binding.set"
	EventUnbound          pubsub.EventType = "binding.cleared"
	EventModelCreated     pubsub.EventType = "model.created"
	EventModelDisposed    pubsub.EventType = "model.disposed"
	EventModelRefreshed   pubsub.EventType = "model.refreshed"
	EventSurfaceAttached  pubsub.EventType = "surface.attached"
	EventSurfaceDisposed  pubsub.EventType = "surface.disposed"
	EventDragIndicator    pubsub.EventType = "drag.indicator"
	EventSessionState     pubsub.EventType = "session.state"
	EventLayoutResized    pubsub.EventType = "layout.resized"
	EventContentReassign  pubsub.EventType = "model.content_reset"
	EventProjectDisplayed pubsub.EventType = "project.display_name"
)

// Event is the payload of every workspace notification.
// Only the fields relevant to the event type are set.
type Event struct {
	ProjectID   string
	Slot        domain.SlotID
	FileID      domain.FileID
	State       domain.LifecycleState
	Indicator   domain.DragIndicator
	DisplayName string
}

// Publisher is the subset of the broker the arenas publish through.
type Publisher = pubsub.Publisher[Event]

type nopPublisher struct{}

func (nopPublisher) Publish(pubsub.EventType, Event) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
