package runtime

import (
	"reflect"
	"strings"

	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/render"
)

// Column is a resolved column definition.
type Column[T any] struct {
	ID    string
	Index int
	Def   domain.ColumnDef[T]
}

// Value reads the column value from row.
func (c Column[T]) Value(row T) any {
	if c.Def.Accessor != nil {
		return c.Def.Accessor(row)
	}
	if c.Def.AccessorKey != "" {
		return accessKey(row, c.Def.AccessorKey)
	}
	return nil
}

// Row is one data item with its identity.
type Row[T any] struct {
	ID       string
	Index    int
	Original T
}

// HeaderContext is passed as props to header descriptors.
type HeaderContext[T any] struct {
	Table  *Engine[T]
	Column Column[T]
}

// CellContext is passed as props to cell descriptors.
type CellContext[T any] struct {
	Table  *Engine[T]
	Column Column[T]
	Row    Row[T]
	Value  any

	fallback any
}

// RenderValue returns the cell value, or the render fallback when it is nil.
func (c CellContext[T]) RenderValue() any {
	if c.Value == nil {
		return c.fallback
	}
	return c.Value
}

// Header pairs a column with its header content.
type Header[T any] struct {
	Column  Column[T]
	Context HeaderContext[T]
}

// Content returns the header descriptor. Columns without one show their ID.
func (h Header[T]) Content() any {
	if h.Column.Def.Header != nil {
		return h.Column.Def.Header
	}
	return h.Column.ID
}

// Cell pairs a column with a row.
type Cell[T any] struct {
	Column  Column[T]
	Context CellContext[T]
}

// Content returns the cell descriptor. Columns without one render the value.
func (c Cell[T]) Content() any {
	if c.Column.Def.Cell != nil {
		return c.Column.Def.Cell
	}
	return defaultCell
}

type renderValuer interface {
	RenderValue() any
}

var defaultCell = render.Factory(func(props any) any {
	if ctx, ok := props.(renderValuer); ok {
		return ctx.RenderValue()
	}
	return nil
})

// Headers returns the headers of the visible columns.
func (e *Engine[T]) Headers() []Header[T] {
	columns := e.VisibleColumns()
	headers := make([]Header[T], len(columns))
	for i, c := range columns {
		headers[i] = Header[T]{Column: c, Context: HeaderContext[T]{Table: e, Column: c}}
	}
	return headers
}

// Cells returns the cells of row for the visible columns.
func (e *Engine[T]) Cells(row Row[T]) []Cell[T] {
	fallback := e.Options().RenderFallbackValue
	columns := e.VisibleColumns()
	cells := make([]Cell[T], len(columns))
	for i, c := range columns {
		cells[i] = Cell[T]{
			Column: c,
			Context: CellContext[T]{
				Table:    e,
				Column:   c,
				Row:      row,
				Value:    c.Value(row.Original),
				fallback: fallback,
			},
		}
	}
	return cells
}

// Grid resolves every header and cell to display text.
func (e *Engine[T]) Grid() (headers []string, rows [][]string) {
	for _, h := range e.Headers() {
		headers = append(headers, render.Flex(h.Content(), h.Context))
	}
	for _, row := range e.Rows() {
		cells := e.Cells(row)
		line := make([]string, len(cells))
		for i, c := range cells {
			line[i] = render.Flex(c.Content(), c.Context)
		}
		rows = append(rows, line)
	}
	return headers, rows
}

func accessKey(row any, key string) any {
	switch r := row.(type) {
	case map[string]any:
		return r[key]
	case map[string]string:
		return r[key]
	}

	rv := reflect.Indirect(reflect.ValueOf(row))
	if rv.Kind() != reflect.Struct {
		return nil
	}
	f := rv.FieldByNameFunc(func(name string) bool {
		return strings.EqualFold(name, key)
	})
	if !f.IsValid() || !f.CanInterface() {
		return nil
	}
	return f.Interface()
}
