package workspace

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/panecode/internal/flags"
	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/tracing"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// DropOutcome describes how a drop was resolved.
type DropOutcome string

const (
	// DropCancelled means the gesture carried no valid payload; nothing changed.
	DropCancelled DropOutcome = "cancelled"
	// DropReused means an existing Model was bound to the target slot.
	DropReused DropOutcome = "reused"
	// DropCreated means a new Model was created and bound.
	DropCreated DropOutcome = "created"
)

// DropResult reports the resolution of one drop.
type DropResult struct {
	Outcome DropOutcome
	Slot    domain.SlotID
	FileID  domain.FileID
	Model   *domain.Model
}

// fileLookup resolves the working copy of a file.
type fileLookup interface {
	Lookup(id domain.FileID) (domain.FileDescriptor, bool)
}

// DragCoordinator resolves drag gestures against the workspace state.
// Only one gesture is in flight at a time.
type DragCoordinator struct {
	state     *State
	files     fileLookup
	flags     *flags.Registry
	tracer    trace.Tracer
	events    Publisher
	indicator domain.DragIndicator
}

// NewDragCoordinator creates a coordinator over state. files may be nil, in
// which case new Models take their content from the drag payload.
func NewDragCoordinator(state *State, files fileLookup, fl *flags.Registry, tracer trace.Tracer, events Publisher) *DragCoordinator {
	return &DragCoordinator{
		state:  state,
		files:  files,
		flags:  fl,
		tracer: tracer,
		events: publisherOrNop(events),
	}
}

// Indicator returns the current drag indicator.
func (c *DragCoordinator) Indicator() domain.DragIndicator {
	return c.indicator
}

// Begin shows the drag indicator for a file drag.
func (c *DragCoordinator) Begin(p domain.FilePayload) {
	c.indicator = domain.DragIndicator{Visible: true, Label: p.File.Filename}
	log.Debug(log.CatDrag, "drag started", "file", p.File.ID)
	c.events.Publish(EventDragIndicator, Event{Indicator: c.indicator, FileID: p.File.ID})
}

// Move repositions a visible indicator.
func (c *DragCoordinator) Move(x, y int) {
	if !c.indicator.Visible {
		return
	}
	c.indicator.X, c.indicator.Y = x, y
	c.events.Publish(EventDragIndicator, Event{Indicator: c.indicator})
}

// ResetIndicator hides the indicator and clears its position and label.
func (c *DragCoordinator) ResetIndicator() {
	c.indicator = domain.DragIndicator{}
	c.events.Publish(EventDragIndicator, Event{Indicator: c.indicator})
}

// Drop resolves a released gesture. The indicator is reset first, whatever
// the outcome. Invalid or absent payloads cancel the drop without error; an
// error is returned only when the workspace rejected the mutation, in which
// case no partial state is left behind.
func (c *DragCoordinator) Drop(ctx context.Context, e domain.DragEnd) (DropResult, error) {
	c.ResetIndicator()

	drop, err := e.Validate()
	if err != nil {
		log.Debug(log.CatDrag, "drop cancelled", "reason", err)
		return DropResult{Outcome: DropCancelled}, nil
	}
	if !c.state.Panes.IsVisible(drop.Slot) {
		log.Debug(log.CatDrag, "drop cancelled", "reason", domain.ErrPaneHidden, "slot", drop.Slot)
		return DropResult{Outcome: DropCancelled}, nil
	}

	return c.Assign(ctx, drop)
}

// Assign binds drop.File to drop.Slot, creating the Model when needed, and
// shows it on drop.Surface. It is the single atomic unit behind both mouse
// drops and keyboard opens.
func (c *DragCoordinator) Assign(ctx context.Context, drop domain.Drop) (DropResult, error) {
	_, span := tracing.Start(ctx, c.tracer, tracing.SpanDrop,
		attribute.Int(tracing.AttrSlot, int(drop.Slot)),
		attribute.String(tracing.AttrFileID, string(drop.File.ID)),
	)
	defer span.End()

	result, err := c.assign(drop)
	span.SetAttributes(attribute.String(tracing.AttrOutcome, string(result.Outcome)))
	tracing.RecordError(span, err)
	return result, err
}

func (c *DragCoordinator) assign(drop domain.Drop) (DropResult, error) {
	if !c.state.Panes.IsVisible(drop.Slot) {
		return DropResult{Outcome: DropCancelled}, fmt.Errorf("assign %s: %w", drop.Slot, domain.ErrPaneHidden)
	}
	if drop.Surface == nil {
		return DropResult{Outcome: DropCancelled}, fmt.Errorf("assign %s: %w", drop.Slot, domain.ErrInvalidDragPayload)
	}

	id := drop.File.ID
	outcome := DropReused
	model, exists := c.state.Models.Get(id)
	if exists {
		if c.flags.Enabled(flags.FlagResetContentOnReassign) {
			log.Warn(log.CatDrag, "resetting content of reassigned file", "file", id, "slot", drop.Slot)
			model.SetContent("")
			c.events.Publish(EventContentReassign, Event{FileID: id, Slot: drop.Slot})
		}
	} else {
		desc := c.resolve(drop.File)
		created, err := c.state.Models.Create(id, desc.Filename, domain.LanguageFor(desc.Filename), desc.Content)
		if err != nil {
			log.ErrorErr(log.CatDrag, "model create failed", err, "file", id)
			return DropResult{Outcome: DropCancelled}, err
		}
		model = created
		outcome = DropCreated
	}

	if err := c.state.Bindings.Bind(drop.Slot, id); err != nil {
		if outcome == DropCreated {
			c.state.Models.remove(id)
		}
		return DropResult{Outcome: DropCancelled}, err
	}

	if err := c.state.Editors.Attach(drop.Slot, drop.Surface); err != nil {
		c.state.Bindings.Unbind(drop.Slot)
		if outcome == DropCreated {
			c.state.Models.remove(id)
		}
		return DropResult{Outcome: DropCancelled}, err
	}
	drop.Surface.SetModel(model)

	log.Info(log.CatDrag, "file assigned", "file", id, "slot", drop.Slot, "outcome", outcome, "models", c.state.Models.Len())
	return DropResult{Outcome: outcome, Slot: drop.Slot, FileID: id, Model: model}, nil
}

// resolve prefers the working copy of the file over the payload snapshot.
func (c *DragCoordinator) resolve(file domain.FileDescriptor) domain.FileDescriptor {
	if c.files == nil {
		return file
	}
	desc, ok := c.files.Lookup(file.ID)
	if !ok {
		return file
	}
	if desc.Filename == "" {
		desc.Filename = file.Filename
	}
	return desc
}

// IsCancelled reports whether err came from a rejected payload.
func IsCancelled(err error) bool {
	return errors.Is(err, domain.ErrInvalidDragPayload)
}
