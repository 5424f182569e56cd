// Package domain provides the pure domain layer for the pane workspace.
//
// The package holds the value types shared by the workspace arenas (slots, models,
// drag payloads, session state), the typed errors they raise, and the ports the
// workspace talks to (file data, terminal, editing surfaces, project directory).
// It has no infrastructure dependencies.
package domain

import "fmt"

// MaxPanes is the fixed number of pane slots in a workspace.
// The count never changes; only visibility does.
const MaxPanes = 3

// SlotID identifies one of the fixed pane slots (0..MaxPanes-1).
type SlotID int

// Valid returns true if the slot is within the fixed slot range.
func (s SlotID) Valid() bool {
	return s >= 0 && s < MaxPanes
}

// String returns a human-readable slot label.
func (s SlotID) String() string {
	return fmt.Sprintf("pane-%d", int(s))
}

// Slots returns every slot in ascending order.
func Slots() []SlotID {
	slots := make([]SlotID, MaxPanes)
	for i := range slots {
		slots[i] = SlotID(i)
	}
	return slots
}

// Pane is a snapshot of one slot's visibility.
type Pane struct {
	Slot    SlotID
	Visible bool
}
