package workspace

import (
	"fmt"

	"github.com/zjrosen/panecode/internal/workspace/domain"
)

// State is the explicit session state of one workspace: the four arenas,
// wired to each other by key lookups. The Manager owns it and hands it to
// the collaborators that need it.
type State struct {
	Panes    *PaneVisibility
	Models   *ModelRegistry
	Bindings *BindingTable
	Editors  *EditorRegistry
}

// NewState creates empty arenas publishing to events.
func NewState(sink domain.ContentSink, events Publisher) *State {
	panes := NewPaneVisibility(events)
	models := NewModelRegistry(sink, events)
	bindings := NewBindingTable(models, events)
	models.refs = bindings
	editors := NewEditorRegistry(panes, events)

	return &State{
		Panes:    panes,
		Models:   models,
		Bindings: bindings,
		Editors:  editors,
	}
}

// ModelFor returns the Model displayed in slot.
func (s *State) ModelFor(slot domain.SlotID) (*domain.Model, bool) {
	id, ok := s.Bindings.Get(slot)
	if !ok {
		return nil, false
	}
	return s.Models.Get(id)
}

// CheckInvariants verifies the cross-arena invariants and returns the first
// violation found.
func (s *State) CheckInvariants() error {
	for _, slot := range domain.Slots() {
		id, bound := s.Bindings.Get(slot)
		_, handled := s.Editors.Get(slot)
		visible := s.Panes.IsVisible(slot)

		if bound {
			if _, ok := s.Models.Get(id); !ok {
				return fmt.Errorf("%s bound to %q which has no model", slot, id)
			}
			if !visible {
				return fmt.Errorf("%s is hidden but bound to %q", slot, id)
			}
		}
		if handled && !visible {
			return fmt.Errorf("%s is hidden but has an editor handle", slot)
		}
	}
	return nil
}
