package dsl

import (
	"fmt"

	"github.com/aretw0/tabula/pkg/domain"
)

// Builder manages the table construction.
type Builder[T any] struct {
	order   []string
	columns map[string]*ColumnBuilder[T]
	opts    domain.Options[T]
	initial domain.State
	hidden  map[string]bool
}

// New creates a new table builder.
func New[T any]() *Builder[T] {
	return &Builder[T]{
		columns: make(map[string]*ColumnBuilder[T]),
	}
}

// Column declares a column read from the row field or map key id.
// If the column already exists, it returns the existing builder.
func (b *Builder[T]) Column(id string) *ColumnBuilder[T] {
	if cb, ok := b.columns[id]; ok {
		return cb
	}
	cb := &ColumnBuilder[T]{
		def:     domain.ColumnDef[T]{ID: id, AccessorKey: id},
		builder: b,
	}
	b.columns[id] = cb
	b.order = append(b.order, id)
	return cb
}

// Data sets the rows.
func (b *Builder[T]) Data(rows ...T) *Builder[T] {
	b.opts.Data = rows
	return b
}

// Fallback sets the value rendered for missing cells.
func (b *Builder[T]) Fallback(v any) *Builder[T] {
	b.opts.RenderFallbackValue = v
	return b
}

// State pins an externally controlled state key.
func (b *Builder[T]) State(key string, value any) *Builder[T] {
	b.opts.State = b.opts.State.With(key, value)
	return b
}

// Initial seeds a key of the initial state.
func (b *Builder[T]) Initial(key string, value any) *Builder[T] {
	b.initial = b.initial.With(key, value)
	return b
}

// Sort appends a sort criterion to the initial state.
func (b *Builder[T]) Sort(columnID string, desc bool) *Builder[T] {
	sorting := append([]domain.ColumnSort(nil), b.initial.Sorting()...)
	sorting = append(sorting, domain.ColumnSort{ID: columnID, Desc: desc})
	return b.Initial(domain.KeySorting, sorting)
}

// PageSize sets the initial page size.
func (b *Builder[T]) PageSize(size int) *Builder[T] {
	p := b.initial.Pagination()
	p.PageSize = size
	return b.Initial(domain.KeyPagination, p)
}

// RowID derives row identifiers with fn.
func (b *Builder[T]) RowID(fn func(row T, index int) string) *Builder[T] {
	b.opts.GetRowID = fn
	return b
}

// OnStateChange sets the handler receiving every requested state change.
func (b *Builder[T]) OnStateChange(fn domain.StateChangeFunc) *Builder[T] {
	b.opts.OnStateChange = fn
	return b
}

// Meta attaches a table-level metadata entry.
func (b *Builder[T]) Meta(key string, value any) *Builder[T] {
	if b.opts.Meta == nil {
		b.opts.Meta = make(map[string]any)
	}
	b.opts.Meta[key] = value
	return b
}

// Build compiles the table into engine options. Hidden columns start hidden
// through the initial column visibility.
func (b *Builder[T]) Build() (domain.Options[T], error) {
	opts := b.opts
	opts.Columns = make([]domain.ColumnDef[T], 0, len(b.order))
	for _, id := range b.order {
		if id == "" {
			return domain.Options[T]{}, fmt.Errorf("column without id: %w", domain.ErrInvalidColumn)
		}
		opts.Columns = append(opts.Columns, b.columns[id].def)
	}

	initial := b.initial.Clone()
	if len(b.hidden) > 0 {
		visibility := make(map[string]bool, len(b.hidden))
		for id := range b.hidden {
			visibility[id] = false
		}
		initial = initial.With(domain.KeyColumnVisibility, visibility)
	}
	if len(initial) > 0 {
		opts.InitialState = initial
	}
	return opts, nil
}
