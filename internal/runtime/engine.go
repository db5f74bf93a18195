package runtime

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/domain"
)

// Engine is the reference headless table engine.
// It resolves columns, rows and cells from its options but leaves row model
// operations (sorting, filtering, pagination) to the host.
type Engine[T any] struct {
	mu      sync.RWMutex
	options domain.Options[T]
	columns []Column[T]
	initial domain.State
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	logger *slog.Logger
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// New validates opts and creates an engine from them.
func New[T any](opts domain.Options[T]) (*Engine[T], error) {
	return newEngine(opts, engineConfig{})
}

// Factory returns a constructor with the given engine options bound, in the
// shape expected by the adapter.
func Factory[T any](engineOpts ...EngineOption) func(domain.Options[T]) (*Engine[T], error) {
	cfg := engineConfig{}
	for _, opt := range engineOpts {
		opt(&cfg)
	}
	return func(opts domain.Options[T]) (*Engine[T], error) {
		return newEngine(opts, cfg)
	}
}

func newEngine[T any](opts domain.Options[T], cfg engineConfig) (*Engine[T], error) {
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	columns, err := resolveColumns(opts.Columns)
	if err != nil {
		return nil, err
	}

	e := &Engine[T]{
		options: opts,
		columns: columns,
		initial: domain.MergeState(defaultState(), opts.InitialState),
		logger:  cfg.logger,
	}
	return e, nil
}

func defaultState() domain.State {
	return domain.State{
		domain.KeySorting:          []domain.ColumnSort{},
		domain.KeyColumnFilters:    []domain.ColumnFilter{},
		domain.KeyPagination:       domain.PaginationState{PageIndex: 0, PageSize: domain.DefaultPageSize},
		domain.KeyGrouping:         []string{},
		domain.KeyColumnVisibility: map[string]bool{},
		domain.KeyRowSelection:     map[string]bool{},
	}
}

func resolveColumns[T any](defs []domain.ColumnDef[T]) ([]Column[T], error) {
	columns := make([]Column[T], 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		id := def.ColumnID()
		if id == "" {
			return nil, fmt.Errorf("column %d has neither id nor accessor key: %w", i, domain.ErrInvalidColumn)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate column id %q: %w", id, domain.ErrInvalidColumn)
		}
		seen[id] = true
		columns = append(columns, Column[T]{ID: id, Index: i, Def: def})
	}
	return columns, nil
}

// InitialState returns a copy of the state the engine started from.
func (e *Engine[T]) InitialState() domain.State {
	return e.initial.Clone()
}

// Options returns the options currently in effect.
func (e *Engine[T]) Options() domain.Options[T] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.options
}

// State returns a copy of the state currently in effect.
func (e *Engine[T]) State() domain.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.options.State.Clone()
}

// SetOptions replaces the options with updater(previous).
func (e *Engine[T]) SetOptions(updater func(prev domain.Options[T]) domain.Options[T]) {
	next := updater(e.Options())

	columns, err := resolveColumns(next.Columns)
	if err != nil {
		e.logger.Warn("Keeping previous columns", "err", err)
	}

	e.mu.Lock()
	e.options = next
	if err == nil {
		e.columns = columns
	}
	e.mu.Unlock()

	e.logger.Debug("Engine options updated", "rows", len(next.Data), "columns", len(next.Columns), "state_keys", len(next.State))
}

// SetState reports a state change through OnStateChange. The engine never
// applies it itself: the new state arrives with the next SetOptions.
func (e *Engine[T]) SetState(u domain.Updater) {
	e.mu.RLock()
	handler := e.options.OnStateChange
	e.mu.RUnlock()

	if handler == nil {
		return
	}
	handler(u)
}

// SetStateKey requests a change of a single state key.
func (e *Engine[T]) SetStateKey(key string, value any) {
	e.SetState(domain.Apply(func(prev domain.State) domain.State {
		return prev.With(key, value)
	}))
}

// ResetState requests a return to the initial state.
func (e *Engine[T]) ResetState() {
	e.SetState(domain.Replace(e.InitialState()))
}

// SetSorting requests a new sorting state.
func (e *Engine[T]) SetSorting(sorting []domain.ColumnSort) {
	e.SetStateKey(domain.KeySorting, sorting)
}

// SetPageIndex requests a move to another page, keeping the page size.
func (e *Engine[T]) SetPageIndex(index int) {
	e.SetState(domain.Apply(func(prev domain.State) domain.State {
		p := prev.Pagination()
		p.PageIndex = index
		return prev.With(domain.KeyPagination, p)
	}))
}

// SetColumnVisibility requests a column to be shown or hidden.
func (e *Engine[T]) SetColumnVisibility(columnID string, visible bool) {
	e.SetState(domain.Apply(func(prev domain.State) domain.State {
		current := prev.ColumnVisibility()
		next := make(map[string]bool, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[columnID] = visible
		return prev.With(domain.KeyColumnVisibility, next)
	}))
}

// Columns returns every resolved column in definition order.
func (e *Engine[T]) Columns() []Column[T] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Column[T], len(e.columns))
	copy(out, e.columns)
	return out
}

// VisibleColumns returns the columns not hidden by the column visibility state.
func (e *Engine[T]) VisibleColumns() []Column[T] {
	visibility := e.State().ColumnVisibility()
	var out []Column[T]
	for _, c := range e.Columns() {
		if visible, ok := visibility[c.ID]; ok && !visible {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Rows returns one row per data item, in data order.
func (e *Engine[T]) Rows() []Row[T] {
	opts := e.Options()
	rows := make([]Row[T], len(opts.Data))
	for i, item := range opts.Data {
		id := strconv.Itoa(i)
		if opts.GetRowID != nil {
			id = opts.GetRowID(item, i)
		}
		rows[i] = Row[T]{ID: id, Index: i, Original: item}
	}
	return rows
}
