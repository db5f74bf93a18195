package domain

import (
	"reflect"
)

// StateDiff represents the changes between two table states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// Table is always present to identify the target.
	Table string `json:"table"`

	// Changed contains only changed, added or deleted keys.
	// For deletions, the key is present with a nil value.
	// Clients should merge these updates into their local state.
	Changed map[string]any `json:"changed,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(table string, oldState, newState State) *StateDiff {
	delta := make(map[string]any)

	if oldState == nil {
		for k, v := range newState {
			delta[k] = v
		}
	} else {
		// Check for Added or Modified
		for k, newVal := range newState {
			oldVal, exists := oldState[k]
			if !exists || !reflect.DeepEqual(oldVal, newVal) {
				delta[k] = newVal
			}
		}
		// Check for Deletions
		for k := range oldState {
			if _, exists := newState[k]; !exists {
				delta[k] = nil
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return &StateDiff{Table: table, Changed: delta}
}

// Touches reports whether the diff changed any of the given keys.
// An empty key list matches every diff.
func (d *StateDiff) Touches(keys ...string) bool {
	if d == nil {
		return false
	}
	if len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if _, ok := d.Changed[k]; ok {
			return true
		}
	}
	return false
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d == nil || len(d.Changed) == 0
}
