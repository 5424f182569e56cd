package workspace

import (
	"fmt"

	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// visibility reports pane visibility.
type visibility interface {
	IsVisible(slot domain.SlotID) bool
}

// EditorRegistry owns the live surface attached to each visible pane.
type EditorRegistry struct {
	handles [domain.MaxPanes]domain.Surface
	panes   visibility
	events  Publisher
}

// NewEditorRegistry creates an empty registry that only attaches to visible panes.
func NewEditorRegistry(panes visibility, events Publisher) *EditorRegistry {
	return &EditorRegistry{panes: panes, events: publisherOrNop(events)}
}

// Attach installs surface as the handle for slot. A different surface already
// attached there is disposed first; re-attaching the same surface is a no-op.
func (r *EditorRegistry) Attach(slot domain.SlotID, surface domain.Surface) error {
	if !slot.Valid() {
		return fmt.Errorf("attach %d: %w", int(slot), domain.ErrInvalidSlot)
	}
	if !r.panes.IsVisible(slot) {
		return fmt.Errorf("attach %s: %w", slot, domain.ErrPaneHidden)
	}
	if surface == nil {
		return fmt.Errorf("attach %s: nil surface", slot)
	}

	prev := r.handles[slot]
	if prev == surface {
		return nil
	}
	if prev != nil {
		r.dispose(slot, prev)
	}
	r.handles[slot] = surface
	log.Debug(log.CatWorkspace, "surface attached", "slot", slot)
	r.events.Publish(EventSurfaceAttached, Event{Slot: slot})
	return nil
}

// Get returns the surface attached to slot.
func (r *EditorRegistry) Get(slot domain.SlotID) (domain.Surface, bool) {
	if !slot.Valid() || r.handles[slot] == nil {
		return nil, false
	}
	return r.handles[slot], true
}

// Detach disposes and removes the handle for slot. Empty slots are a no-op.
func (r *EditorRegistry) Detach(slot domain.SlotID) {
	if !slot.Valid() || r.handles[slot] == nil {
		return
	}
	surface := r.handles[slot]
	r.handles[slot] = nil
	r.dispose(slot, surface)
}

// All returns the handles indexed by slot; empty slots are nil.
func (r *EditorRegistry) All() [domain.MaxPanes]domain.Surface {
	return r.handles
}

// Len returns the number of attached handles.
func (r *EditorRegistry) Len() int {
	n := 0
	for _, h := range r.handles {
		if h != nil {
			n++
		}
	}
	return n
}

// DisposeAll detaches every handle.
func (r *EditorRegistry) DisposeAll() {
	for _, slot := range domain.Slots() {
		r.Detach(slot)
	}
}

// BroadcastResize forwards a layout change to the terminal pane and to every
// attached surface that implements domain.Resizer. A nil terminal is skipped.
func (r *EditorRegistry) BroadcastResize(terminal domain.Terminal, width, height int) {
	if terminal != nil {
		terminal.Resize()
	}
	for _, h := range r.handles {
		if rs, ok := h.(domain.Resizer); ok {
			rs.Resize(width, height)
		}
	}
	log.Debug(log.CatWorkspace, "layout resized", "surfaces", r.Len(), "width", width, "height", height)
	r.events.Publish(EventLayoutResized, Event{})
}

// dispose releases a surface. Panics from the surface are logged and swallowed
// since disposal runs on teardown paths that must always complete.
func (r *EditorRegistry) dispose(slot domain.SlotID, surface domain.Surface) {
	defer func() {
		if p := recover(); p != nil {
			log.Warn(log.CatWorkspace, "surface dispose panicked", "slot", slot, "panic", p)
		}
	}()
	surface.Dispose()
	log.Debug(log.CatWorkspace, "surface disposed", "slot", slot)
	r.events.Publish(EventSurfaceDisposed, Event{Slot: slot})
}
