package workspace

import (
	"fmt"

	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// modelLookup resolves FileIDs to Models.
type modelLookup interface {
	Get(id domain.FileID) (*domain.Model, bool)
}

// BindingTable maps each slot to at most one FileID.
// Several slots may bind the same FileID; they then share one Model.
type BindingTable struct {
	bound  [domain.MaxPanes]domain.FileID
	models modelLookup
	events Publisher
}

// NewBindingTable creates an empty table that validates FileIDs against models.
func NewBindingTable(models modelLookup, events Publisher) *BindingTable {
	return &BindingTable{models: models, events: publisherOrNop(events)}
}

// Bind points slot at id, replacing the slot's previous binding.
// Other slots are never touched. Binding a FileID without a Model returns
// UnboundModelError and leaves the table unchanged.
func (b *BindingTable) Bind(slot domain.SlotID, id domain.FileID) error {
	if !slot.Valid() {
		return fmt.Errorf("bind %d: %w", int(slot), domain.ErrInvalidSlot)
	}
	if _, ok := b.models.Get(id); !ok {
		err := &domain.UnboundModelError{Slot: slot, FileID: id}
		log.ErrorErr(log.CatWorkspace, "bind rejected", err)
		return err
	}
	b.bound[slot] = id
	log.Debug(log.CatWorkspace, "slot bound", "slot", slot, "file", id)
	b.events.Publish(EventBound, Event{Slot: slot, FileID: id})
	return nil
}

// Unbind clears slot. Unbinding an empty or invalid slot is a no-op.
func (b *BindingTable) Unbind(slot domain.SlotID) {
	if !slot.Valid() || b.bound[slot] == "" {
		return
	}
	id := b.bound[slot]
	b.bound[slot] = ""
	log.Debug(log.CatWorkspace, "slot unbound", "slot", slot, "file", id)
	b.events.Publish(EventUnbound, Event{Slot: slot, FileID: id})
}

// Get returns the FileID bound to slot.
func (b *BindingTable) Get(slot domain.SlotID) (domain.FileID, bool) {
	if !slot.Valid() || b.bound[slot] == "" {
		return "", false
	}
	return b.bound[slot], true
}

// References returns the slots bound to id in ascending order.
func (b *BindingTable) References(id domain.FileID) []domain.SlotID {
	var out []domain.SlotID
	for i, bound := range b.bound {
		if bound != "" && bound == id {
			out = append(out, domain.SlotID(i))
		}
	}
	return out
}

// Clear unbinds every slot.
func (b *BindingTable) Clear() {
	for _, slot := range domain.Slots() {
		b.Unbind(slot)
	}
}
