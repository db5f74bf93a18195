package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/tabula/pkg/session"
)

// ErrNoStore is returned by the state commands when no store is configured.
var ErrNoStore = errors.New("no state store configured (use --state-dir or --redis)")

func withManager(opts Options, fn func(*session.Manager) error) error {
	manager, closeStore, err := setupPersistence(opts, createLogger(opts))
	if err != nil {
		return err
	}
	defer closeStore()
	if manager == nil {
		return ErrNoStore
	}
	return fn(manager)
}

// ListStates prints the IDs of every saved table state.
func ListStates(ctx context.Context, opts Options, w io.Writer) error {
	return withManager(opts, func(m *session.Manager) error {
		ids, err := m.List(ctx)
		if err != nil {
			return fmt.Errorf("error listing table states: %w", err)
		}
		if len(ids) == 0 {
			fmt.Fprintln(w, "No saved table states found.")
			return nil
		}
		fmt.Fprintln(w, "Saved table states:")
		for _, id := range ids {
			fmt.Fprintln(w, "- "+id)
		}
		return nil
	})
}

// InspectState prints the saved state of one table as indented JSON.
func InspectState(ctx context.Context, opts Options, tableID string, w io.Writer) error {
	return withManager(opts, func(m *session.Manager) error {
		state, err := m.Load(ctx, tableID)
		if err != nil {
			return fmt.Errorf("error loading table state '%s': %w", tableID, err)
		}
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	})
}

// RemoveStates deletes the saved state of each table, reporting every failure.
func RemoveStates(ctx context.Context, opts Options, tableIDs []string, w io.Writer) error {
	return withManager(opts, func(m *session.Manager) error {
		var errs []error
		for _, id := range tableIDs {
			if err := m.Delete(ctx, id); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(w, "Removed table state '%s'\n", id)
		}
		return errors.Join(errs...)
	})
}
