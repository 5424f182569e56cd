package domain

import (
	"errors"
	"fmt"
)

// ErrProjectNotFound matches every ProjectNotFoundError.
var ErrProjectNotFound = errors.New("project not found")

// ProjectNotFoundError is returned when no project matches a lookup.
type ProjectNotFoundError struct {
	Key string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.Key)
}

// Is reports whether target is ErrProjectNotFound.
func (e *ProjectNotFoundError) Is(target error) bool {
	return target == ErrProjectNotFound
}
