package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	ErrDuplicateModel     = errors.New("model already exists")
	ErrModelInUse         = errors.New("model is still bound to a pane")
	ErrUnboundModel       = errors.New("no model exists for file")
	ErrInvalidDragPayload = errors.New("invalid drag payload")
	ErrNoFreePane         = errors.New("all panes are already visible")
	ErrInvalidSlot        = errors.New("invalid pane slot")
	ErrPaneHidden         = errors.New("pane is not visible")
)

// DuplicateModelError is returned when a Model is created for a FileID that
// already has one. Callers should reuse the existing Model instead.
type DuplicateModelError struct {
	FileID FileID
}

func (e *DuplicateModelError) Error() string {
	return fmt.Sprintf("model for file %q already exists", e.FileID)
}

// Is reports whether target is ErrDuplicateModel.
func (e *DuplicateModelError) Is(target error) bool {
	return target == ErrDuplicateModel
}

// ModelInUseError is returned when disposing a Model that a pane still binds.
type ModelInUseError struct {
	FileID FileID
	Slots  []SlotID
}

func (e *ModelInUseError) Error() string {
	return fmt.Sprintf("model for file %q is bound to %v", e.FileID, e.Slots)
}

// Is reports whether target is ErrModelInUse.
func (e *ModelInUseError) Is(target error) bool {
	return target == ErrModelInUse
}

// UnboundModelError is returned when binding a slot to a FileID with no Model.
// It is a contract violation by the caller; the binding table is left unchanged.
type UnboundModelError struct {
	Slot   SlotID
	FileID FileID
}

func (e *UnboundModelError) Error() string {
	return fmt.Sprintf("cannot bind %s to file %q: no model", e.Slot, e.FileID)
}

// Is reports whether target is ErrUnboundModel.
func (e *UnboundModelError) Is(target error) bool {
	return target == ErrUnboundModel
}
