package ports

import (
	"context"

	"github.com/aretw0/tabula/pkg/domain"
)

// StateStore defines the interface for persisting table state snapshots.
// This allows a table to resume from where a previous process left it.
type StateStore interface {
	// Save persists the state for a given table ID.
	Save(ctx context.Context, tableID string, state domain.State) error

	// Load retrieves the state for a given table ID.
	// Returns domain.ErrTableNotFound if the table has no snapshot.
	Load(ctx context.Context, tableID string) (domain.State, error)

	// Delete removes the snapshot for a given table ID.
	Delete(ctx context.Context, tableID string) error

	// List returns the IDs of every stored snapshot.
	List(ctx context.Context) ([]string, error)
}
