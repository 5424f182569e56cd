// Package flags provides feature flags for behavior that is still being decided.
// Flags are read-only after initialization and unknown flags are always disabled.
package flags

import (
	"maps"

	"github.com/zjrosen/panecode/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagResetContentOnReassign empties a file's buffer when a drag reassigns an
	// already-open file to another pane. Off by default: content is preserved.
	FlagResetContentOnReassign = "reset-content-on-reassign"

	// FlagPersistOnUnload flushes the working copy to storage when the process is
	// interrupted. On by default.
	FlagPersistOnUnload = "persist-on-unload"
)

// Defaults returns the value of every known flag when configuration omits it.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagResetContentOnReassign: false,
		FlagPersistOnUnload:        true,
	}
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// If flags is nil, an empty registry is created (all flags disabled).
func New(flags map[string]bool) *Registry {
	if flags == nil {
		flags = make(map[string]bool)
	}
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// NewWithDefaults creates a Registry from Defaults overlaid with overrides.
func NewWithDefaults(overrides map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, overrides)
	return New(merged)
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags and on a nil registry.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// All returns a copy of all flags (for debugging/logging).
// Returns an empty map if the registry is nil.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
