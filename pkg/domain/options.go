package domain

// Record is the row type used by tables defined from files or over the wire.
type Record = map[string]any

// ColumnDef describes one column. Header, Cell and Footer are renderable
// descriptors: plain values, render.Component, or render.Factory.
type ColumnDef[T any] struct {
	// ID identifies the column. Defaults to AccessorKey.
	ID string

	// AccessorKey reads the value from a map key or struct field.
	AccessorKey string

	// Accessor reads the value from the row. Takes precedence over AccessorKey.
	Accessor func(row T) any

	Header any
	Cell   any
	Footer any

	Meta map[string]any
}

// ColumnID returns the effective column identifier.
func (c ColumnDef[T]) ColumnID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.AccessorKey
}

// Options configures a table engine.
type Options[T any] struct {
	Data    []T
	Columns []ColumnDef[T]

	// State is the externally controlled state. Keys present here win over
	// the state tracked by the adapter.
	State State

	// InitialState seeds the engine's initial state.
	InitialState State

	// OnStateChange receives every state change requested by the engine.
	OnStateChange StateChangeFunc

	// RenderFallbackValue is rendered for cells whose value is nil.
	RenderFallbackValue any

	// GetRowID derives a row identifier. Defaults to the row index.
	GetRowID func(row T, index int) string

	Meta map[string]any
}

// DefaultOptions returns the baseline every adapter resolves options from:
// an empty state, a no-op state handler and a nil render fallback.
func DefaultOptions[T any]() Options[T] {
	return Options[T]{
		State:               State{},
		OnStateChange:       NoopStateChange,
		RenderFallbackValue: nil,
	}
}

// Overlay returns prev shallow-overridden by every field set on live.
// A nil slice, map, func or interface on live counts as unset.
func Overlay[T any](prev, live Options[T]) Options[T] {
	next := prev
	if live.Data != nil {
		next.Data = live.Data
	}
	if live.Columns != nil {
		next.Columns = live.Columns
	}
	if live.State != nil {
		next.State = live.State
	}
	if live.InitialState != nil {
		next.InitialState = live.InitialState
	}
	if live.OnStateChange != nil {
		next.OnStateChange = live.OnStateChange
	}
	if live.RenderFallbackValue != nil {
		next.RenderFallbackValue = live.RenderFallbackValue
	}
	if live.GetRowID != nil {
		next.GetRowID = live.GetRowID
	}
	if live.Meta != nil {
		next.Meta = live.Meta
	}
	return next
}
