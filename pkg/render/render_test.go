package render_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aretw0/tabula/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cellProps struct {
	Value any
}

func sameFunc(a, b any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestResolve_PlainValue(t *testing.T) {
	r := render.Resolve("Hello", map[string]any{})
	require.NotNil(t, r)
	assert.True(t, sameFunc(render.Display, r.Component), "plain values are wrapped in Display")
	assert.Equal(t, render.DisplayProps{Content: "Hello"}, r.Props)
	assert.Equal(t, "Hello", r.Render())
}

func TestResolve_Absent(t *testing.T) {
	var nilFactory render.Factory
	var nilComponent render.Component
	var nilPtr *cellProps

	for name, descriptor := range map[string]any{
		"nil":           nil,
		"false":         false,
		"empty string":  "",
		"zero int":      0,
		"zero float":    0.0,
		"nil factory":   nilFactory,
		"nil component": nilComponent,
		"nil pointer":   nilPtr,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, render.Resolve(descriptor, cellProps{}))
		})
	}
}

func TestResolve_FactoryReturningNil(t *testing.T) {
	calls := 0
	f := render.Factory(func(props any) any {
		calls++
		return nil
	})
	assert.Nil(t, render.Resolve(f, cellProps{Value: 1}))
	assert.Equal(t, 1, calls)

	typedNil := render.Factory(func(any) any {
		var c render.Component
		return c
	})
	assert.Nil(t, render.Resolve(typedNil, cellProps{}))
}

func TestResolve_FactoryReturningComponent(t *testing.T) {
	innerCalls := 0
	inner := render.Component(func(props any) string {
		innerCalls++
		return "X"
	})
	props := cellProps{Value: 42}

	var seen any
	r := render.Resolve(render.Factory(func(p any) any {
		seen = p
		return inner
	}), props)

	require.NotNil(t, r)
	assert.Equal(t, props, seen, "factory receives the props")
	assert.True(t, sameFunc(inner, r.Component), "the inner component is returned unwrapped")
	assert.Equal(t, props, r.Props, "props are passed through unchanged")
	assert.Equal(t, 0, innerCalls, "the inner component is not invoked by Resolve")
	assert.Equal(t, "X", r.Render())
}

func TestResolve_FactoryReturningPlainValue(t *testing.T) {
	r := render.Resolve(func(p any) any { return p.(cellProps).Value }, cellProps{Value: 3.5})
	require.NotNil(t, r)
	assert.Equal(t, render.DisplayProps{Content: 3.5}, r.Props)
	assert.Equal(t, "3.5", r.Render())

	// Only nil is "absent" for a factory result.
	r = render.Resolve(render.Factory(func(any) any { return false }), nil)
	require.NotNil(t, r)
	assert.Equal(t, "false", r.Render())
}

func TestResolve_FactoryReturningFactory(t *testing.T) {
	nested := render.Factory(func(p any) any { return p.(cellProps).Value })
	r := render.Resolve(render.Factory(func(any) any { return nested }), cellProps{Value: "deep"})
	require.NotNil(t, r)
	assert.Equal(t, cellProps{Value: "deep"}, r.Props)
	assert.Equal(t, "deep", r.Render())
}

func TestResolve_ComponentReference(t *testing.T) {
	calls := 0
	c := render.Component(func(props any) string {
		calls++
		return "<b>" + props.(cellProps).Value.(string) + "</b>"
	})

	r := render.Resolve(c, cellProps{Value: "bold"})
	require.NotNil(t, r)
	assert.Equal(t, 0, calls)
	assert.Equal(t, "<b>bold</b>", r.Render())
	assert.Equal(t, 1, calls)
}

func TestBind(t *testing.T) {
	label := render.ComponentOf(func(p map[string]string) string { return p["label"] })
	r := render.Resolve(render.Factory(func(any) any {
		return render.Bind(label, map[string]string{"label": "Name"})
	}), cellProps{})

	require.NotNil(t, r)
	assert.Equal(t, cellProps{}, r.Props)
	assert.Equal(t, "Name", r.Render())
}

func TestTypedAdapters(t *testing.T) {
	f := render.FactoryOf(func(p cellProps) any { return p.Value })
	assert.Equal(t, "7", render.Flex(f, cellProps{Value: 7}))
	assert.Equal(t, "", render.Flex(f, "wrong props"))

	c := render.ComponentOf(func(p cellProps) string { return "ok" })
	assert.Equal(t, "", c("wrong props"))
}

func TestResolve_TypedFunctions(t *testing.T) {
	calls := 0
	factory := func(p cellProps) any {
		calls++
		return p.Value
	}
	assert.Equal(t, "x", render.Flex(factory, cellProps{Value: "x"}))
	assert.Equal(t, 1, calls, "a typed factory is called once")
	assert.Nil(t, render.Resolve(factory, "wrong props"), "props of another type produce nothing")

	component := func(p cellProps) string { return "<" + p.Value.(string) + ">" }
	r := render.Resolve(component, cellProps{Value: "y"})
	require.NotNil(t, r)
	assert.Equal(t, cellProps{Value: "y"}, r.Props)
	assert.Equal(t, "<y>", r.Render())

	nested := func(any) any { return component }
	assert.Equal(t, "<z>", render.Flex(nested, cellProps{Value: "z"}), "a factory may return a typed component")

	deeper := func(p *cellProps) any { return func(p cellProps) any { return p.Value } }
	assert.Equal(t, "", render.Flex(deeper, nil), "nil props reach pointer parameters")
}

func TestResolve_UnsupportedFunction(t *testing.T) {
	assert.Panics(t, func() { render.Resolve(func(a, b int) string { return "" }, nil) })
	assert.Panics(t, func() { render.Resolve(func(cellProps) {}, cellProps{}) })
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name    string
		content any
		want    string
	}{
		{"string", "hi", "hi"},
		{"int", 12, "12"},
		{"error", errors.New("boom"), "boom"},
		{"slice", []int{1, 2}, "[1 2]"},
		{"func renders nothing", func() {}, ""},
		{"chan renders nothing", make(chan int), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.Display(render.DisplayProps{Content: tt.content}))
		})
	}
	assert.Equal(t, "", render.Display("not display props"))
	assert.Equal(t, "ptr", render.Display(&render.DisplayProps{Content: "ptr"}))
}

func TestRenderable_NilRender(t *testing.T) {
	var r *render.Renderable
	assert.Equal(t, "", r.Render())
	assert.Equal(t, "", render.Flex(nil, nil))
}
