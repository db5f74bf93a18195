package ports

import (
	"github.com/aretw0/tabula/pkg/domain"
)

// Engine is a headless table engine. It owns the table logic and exposes a
// pull-based view of its options and state; it reports state changes through
// Options.OnStateChange instead of mutating its own state.
type Engine[T any] interface {
	// InitialState is the state the engine starts from.
	InitialState() domain.State

	// Options returns the options currently in effect.
	Options() domain.Options[T]

	// SetOptions replaces the options with updater(previous) and recomputes
	// whatever the engine derives from them.
	SetOptions(updater func(prev domain.Options[T]) domain.Options[T])

	// State returns the state from the options currently in effect.
	State() domain.State
}

// EngineFactory creates an engine from fully resolved options.
type EngineFactory[T any, E Engine[T]] func(opts domain.Options[T]) (E, error)
