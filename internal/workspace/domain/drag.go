package domain

import "fmt"

// PayloadKind tags the variants carried by a drag gesture.
type PayloadKind string

const (
	PayloadFile PayloadKind = "file"
	PayloadPane PayloadKind = "pane"
)

// Payload is one side of a drag gesture: the dragged item or the drop target.
type Payload interface {
	Kind() PayloadKind
}

// FilePayload is attached when a file drag starts.
// Surfaces maps each slot to the surface rendered there at drag start.
type FilePayload struct {
	File     FileDescriptor
	Surfaces map[SlotID]Surface
}

// Kind implements Payload.
func (FilePayload) Kind() PayloadKind { return PayloadFile }

// PaneTarget is attached to a drop zone.
type PaneTarget struct {
	Slot    SlotID
	Surface Surface
}

// Kind implements Payload.
func (PaneTarget) Kind() PayloadKind { return PayloadPane }

// DragEnd is emitted when a drag gesture is released.
// Active is nil when the gesture never carried data; Over is nil when the
// pointer was released outside any drop zone.
type DragEnd struct {
	Active Payload
	Over   Payload
}

// Drop is a validated DragEnd.
type Drop struct {
	File    FileDescriptor
	Slot    SlotID
	Surface Surface
}

// Validate checks the gesture shape and returns the resolved drop.
// Any failure wraps ErrInvalidDragPayload and means the gesture is cancelled.
func (e DragEnd) Validate() (Drop, error) {
	if e.Active == nil || e.Over == nil {
		return Drop{}, fmt.Errorf("%w: released outside a drop target", ErrInvalidDragPayload)
	}

	file, ok := e.Active.(FilePayload)
	if !ok {
		return Drop{}, fmt.Errorf("%w: active payload is %q, want %q", ErrInvalidDragPayload, e.Active.Kind(), PayloadFile)
	}
	target, ok := e.Over.(PaneTarget)
	if !ok {
		return Drop{}, fmt.Errorf("%w: drop target is %q, want %q", ErrInvalidDragPayload, e.Over.Kind(), PayloadPane)
	}

	if file.File.ID == "" || file.File.Filename == "" {
		return Drop{}, fmt.Errorf("%w: file descriptor missing id or filename", ErrInvalidDragPayload)
	}
	if !target.Slot.Valid() {
		return Drop{}, fmt.Errorf("%w: %w %d", ErrInvalidDragPayload, ErrInvalidSlot, int(target.Slot))
	}

	surface := target.Surface
	if surface == nil {
		surface = file.Surfaces[target.Slot]
	}
	if surface == nil {
		return Drop{}, fmt.Errorf("%w: no surface for %s", ErrInvalidDragPayload, target.Slot)
	}

	return Drop{File: file.File, Slot: target.Slot, Surface: surface}, nil
}

// DragIndicator is the transient visual that follows the pointer during a drag.
type DragIndicator struct {
	Visible bool
	X, Y    int
	Label   string
}
