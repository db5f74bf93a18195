package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/store"
)

// StateSource is anything exposing the table state currently in effect,
// such as an engine emitted by an adapter.
type StateSource interface {
	State() domain.State
}

// Track persists the state of every engine emitted by table whose state
// differs from the last one saved. The first emission is always saved.
// Save errors are logged and retried on the next change.
func Track[E StateSource](ctx context.Context, m *Manager, tableID string, table store.Readable[E]) store.Unsubscriber {
	var (
		mu    sync.Mutex
		last  domain.State
		saved bool
	)

	return table.Subscribe(func(e E) {
		state := e.State()

		mu.Lock()
		defer mu.Unlock()

		diff := domain.Diff(tableID, last, state)
		if saved && diff.IsEmpty() {
			return
		}
		if err := m.Save(ctx, tableID, state); err != nil {
			m.logger.Error("Failed to persist table state", "table", tableID, "err", err)
			return
		}

		changed := 0
		if diff != nil {
			changed = len(diff.Changed)
		}
		m.logger.Debug("Table state persisted", "table", tableID, "changed", changed)
		last = state.Clone()
		saved = true
	})
}

// Restore seeds opts.InitialState with the last snapshot saved for tableID.
// Saved keys win over the ones already in opts.InitialState. A missing
// snapshot leaves opts unchanged.
func Restore[T any](ctx context.Context, m *Manager, tableID string, opts domain.Options[T]) (domain.Options[T], error) {
	saved, err := m.Load(ctx, tableID)
	if errors.Is(err, domain.ErrTableNotFound) {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("failed to restore table %q: %w", tableID, err)
	}

	opts.InitialState = domain.MergeState(opts.InitialState, saved)
	m.logger.Debug("Table state restored", "table", tableID, "keys", len(saved))
	return opts, nil
}
