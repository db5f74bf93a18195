package dsl

import (
	"fmt"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/render"
)

// ColumnBuilder provides a fluent API for configuring a column.
type ColumnBuilder[T any] struct {
	def     domain.ColumnDef[T]
	builder *Builder[T]
}

// Key reads the value from a different field or map key than the column ID.
func (c *ColumnBuilder[T]) Key(accessorKey string) *ColumnBuilder[T] {
	c.def.AccessorKey = accessorKey
	return c
}

// Accessor reads the value with fn. It takes precedence over the key.
func (c *ColumnBuilder[T]) Accessor(fn func(row T) any) *ColumnBuilder[T] {
	c.def.Accessor = fn
	return c
}

// Header sets the header descriptor: a string, a render.Component or a
// render.Factory.
func (c *ColumnBuilder[T]) Header(descriptor any) *ColumnBuilder[T] {
	c.def.Header = descriptor
	return c
}

// Cell sets the cell descriptor.
func (c *ColumnBuilder[T]) Cell(descriptor any) *ColumnBuilder[T] {
	c.def.Cell = descriptor
	return c
}

// Footer sets the footer descriptor.
func (c *ColumnBuilder[T]) Footer(descriptor any) *ColumnBuilder[T] {
	c.def.Footer = descriptor
	return c
}

// Format renders present values through fmt.Sprintf(format, value).
// Missing values keep the table fallback.
func (c *ColumnBuilder[T]) Format(format string) *ColumnBuilder[T] {
	c.def.Cell = Format[T](format)
	return c
}

// Hidden starts the column hidden.
func (c *ColumnBuilder[T]) Hidden() *ColumnBuilder[T] {
	if c.builder.hidden == nil {
		c.builder.hidden = make(map[string]bool)
	}
	c.builder.hidden[c.def.ID] = true
	return c
}

// Meta attaches a column metadata entry.
func (c *ColumnBuilder[T]) Meta(key string, value any) *ColumnBuilder[T] {
	if c.def.Meta == nil {
		c.def.Meta = make(map[string]any)
	}
	c.def.Meta[key] = value
	return c
}

// Column declares the next column.
func (c *ColumnBuilder[T]) Column(id string) *ColumnBuilder[T] {
	return c.builder.Column(id)
}

// Table returns the table builder.
func (c *ColumnBuilder[T]) Table() *Builder[T] {
	return c.builder
}

// Format returns a cell descriptor rendering present values through
// fmt.Sprintf(format, value) and missing ones as the table fallback.
func Format[T any](format string) any {
	return render.FactoryOf(func(ctx tabula.CellContext[T]) any {
		if ctx.Value == nil {
			return ctx.RenderValue()
		}
		return fmt.Sprintf(format, ctx.Value)
	})
}
