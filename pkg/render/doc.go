/*
Package render resolves cell and header content into a single renderable shape.

Content authors may supply a plain value, a Component, or a Factory that
decides at render time what to produce. Resolve collapses the three cases so
that callers always get back either nil (nothing to render) or a Renderable:
a Component paired with the props it must be called with.

	header := render.Factory(func(props any) any {
		return render.Bind(sortHeader, sortHeaderProps{Label: "Name"})
	})
	text := render.Resolve(header, ctx).Render()

Plain values are wrapped in Display, a pass-through component that prints the
value and nothing else.
*/
package render
