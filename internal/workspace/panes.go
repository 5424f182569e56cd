package workspace

import (
	"fmt"

	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// PaneVisibility tracks which of the fixed pane slots are visible.
// It only reports the visible set; rendering belongs to the layout.
type PaneVisibility struct {
	visible [domain.MaxPanes]bool
	events  Publisher
}

// NewPaneVisibility creates a controller with every slot hidden.
func NewPaneVisibility(events Publisher) *PaneVisibility {
	return &PaneVisibility{events: publisherOrNop(events)}
}

// Add makes the lowest hidden slot visible and returns it.
func (p *PaneVisibility) Add() (domain.SlotID, error) {
	for i := range p.visible {
		if !p.visible[i] {
			slot := domain.SlotID(i)
			p.visible[i] = true
			log.Debug(log.CatWorkspace, "pane shown", "slot", slot, "visible", p.Count())
			p.events.Publish(EventPaneShown, Event{Slot: slot})
			return slot, nil
		}
	}
	return 0, domain.ErrNoFreePane
}

// Remove hides a slot. Hiding an already hidden slot is a no-op.
// Callers must clear the slot's binding and editor handle first.
func (p *PaneVisibility) Remove(slot domain.SlotID) error {
	if !slot.Valid() {
		return fmt.Errorf("remove pane %d: %w", int(slot), domain.ErrInvalidSlot)
	}
	if !p.visible[slot] {
		return nil
	}
	p.visible[slot] = false
	log.Debug(log.CatWorkspace, "pane hidden", "slot", slot, "visible", p.Count())
	p.events.Publish(EventPaneHidden, Event{Slot: slot})
	return nil
}

// IsVisible reports whether slot is visible. Invalid slots are never visible.
func (p *PaneVisibility) IsVisible(slot domain.SlotID) bool {
	return slot.Valid() && p.visible[slot]
}

// Visible returns the visible slots in ascending order.
func (p *PaneVisibility) Visible() []domain.SlotID {
	out := make([]domain.SlotID, 0, domain.MaxPanes)
	for i, v := range p.visible {
		if v {
			out = append(out, domain.SlotID(i))
		}
	}
	return out
}

// Count returns the number of visible slots.
func (p *PaneVisibility) Count() int {
	n := 0
	for _, v := range p.visible {
		if v {
			n++
		}
	}
	return n
}

// Panes returns a snapshot of all slots, visible or not.
func (p *PaneVisibility) Panes() [domain.MaxPanes]domain.Pane {
	var out [domain.MaxPanes]domain.Pane
	for i, v := range p.visible {
		out[i] = domain.Pane{Slot: domain.SlotID(i), Visible: v}
	}
	return out
}
