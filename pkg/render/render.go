package render

import (
	"fmt"
	"reflect"
)

// Component renders props into display text.
type Component func(props any) string

// Factory produces, from props, either a Component or a plain value (or nil).
type Factory func(props any) any

// Renderable is a component paired with the props it must be invoked with.
type Renderable struct {
	Component Component
	Props     any
}

// Render invokes the component. A nil Renderable renders nothing.
func (r *Renderable) Render() string {
	if r == nil || r.Component == nil {
		return ""
	}
	return r.Component(r.Props)
}

// DisplayProps are the props of the Display wrapper.
type DisplayProps struct {
	Content any
}

// Display is the pass-through wrapper used for plain values.
func Display(props any) string {
	switch p := props.(type) {
	case DisplayProps:
		return displayValue(p.Content)
	case *DisplayProps:
		if p != nil {
			return displayValue(p.Content)
		}
	}
	return ""
}

func displayValue(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case fmt.Stringer:
		return c.String()
	case error:
		return c.Error()
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return ""
	}
	return fmt.Sprint(v)
}

// Resolve normalizes descriptor into a Renderable, or nil when there is
// nothing to render.
//
//   - empty descriptors (nil, false, "", zero numbers, nil funcs) resolve to nil;
//   - a Component is returned as is, paired with props;
//   - a Factory is called once with props and its result resolved: nil stays
//     nil, a Component (or Factory) is paired with props, anything else is
//     wrapped in Display;
//   - any other one-argument function is a Component when it returns a string
//     kind and a Factory otherwise; it is only called with props assignable
//     to its parameter;
//   - any other value is wrapped in Display.
//
// Functions of any other shape panic: they can never render.
func Resolve(descriptor any, props any) *Renderable {
	if isEmpty(descriptor) {
		return nil
	}

	switch d := descriptor.(type) {
	case Component:
		return &Renderable{Component: d, Props: props}
	case func(any) string:
		return &Renderable{Component: d, Props: props}
	case Factory:
		return fromResult(d(props), props)
	case func(any) any:
		return fromResult(d(props), props)
	case *Renderable:
		return d
	default:
		if c, f, ok := funcDescriptor(descriptor); ok {
			if c != nil {
				return &Renderable{Component: c, Props: props}
			}
			return fromResult(f(props), props)
		}
		return wrap(descriptor)
	}
}

func fromResult(result any, props any) *Renderable {
	if isNil(result) {
		return nil
	}

	switch r := result.(type) {
	case Component:
		return &Renderable{Component: r, Props: props}
	case func(any) string:
		return &Renderable{Component: r, Props: props}
	case Factory:
		return &Renderable{Component: factoryComponent(r), Props: props}
	case func(any) any:
		return &Renderable{Component: factoryComponent(r), Props: props}
	case *Renderable:
		return r
	default:
		if c, f, ok := funcDescriptor(result); ok {
			if c != nil {
				return &Renderable{Component: c, Props: props}
			}
			return &Renderable{Component: factoryComponent(f), Props: props}
		}
		return wrap(result)
	}
}

// funcDescriptor adapts a typed one-argument function. ok is false when v is
// not a function.
func funcDescriptor(v any) (c Component, f Factory, ok bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func {
		return nil, nil, false
	}
	t := rv.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 || t.IsVariadic() {
		panic(fmt.Sprintf("render: descriptor of type %T must be func(P) string or func(P) any", v))
	}

	call := func(props any) (reflect.Value, bool) {
		arg, ok := propsValue(props, t.In(0))
		if !ok {
			return reflect.Value{}, false
		}
		return rv.Call([]reflect.Value{arg})[0], true
	}

	if t.Out(0).Kind() == reflect.String {
		return func(props any) string {
			out, ok := call(props)
			if !ok {
				return ""
			}
			return out.String()
		}, nil, true
	}
	return nil, func(props any) any {
		out, ok := call(props)
		if !ok {
			return nil
		}
		return out.Interface()
	}, true
}

// propsValue converts props for a parameter of type want.
func propsValue(props any, want reflect.Type) (reflect.Value, bool) {
	if props == nil {
		switch want.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(props)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, false
	}
	return v, true
}

// factoryComponent adapts a factory returned by another factory.
func factoryComponent(f Factory) Component {
	return func(props any) string {
		return Resolve(f, props).Render()
	}
}

func wrap(content any) *Renderable {
	return &Renderable{
		Component: Display,
		Props:     DisplayProps{Content: content},
	}
}

// isEmpty reports the descriptors that render nothing.
func isEmpty(v any) bool {
	if isNil(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Bind returns a component that ignores its own props and renders c with props.
// Factories use it to produce a component together with the props it needs.
func Bind(c Component, props any) Component {
	return func(any) string {
		return c(props)
	}
}

// ComponentOf adapts a typed render function. Props of another type render nothing.
func ComponentOf[P any](fn func(P) string) Component {
	return func(props any) string {
		p, ok := props.(P)
		if !ok {
			return ""
		}
		return fn(p)
	}
}

// FactoryOf adapts a typed factory. Props of another type produce nil.
func FactoryOf[P any](fn func(P) any) Factory {
	return func(props any) any {
		p, ok := props.(P)
		if !ok {
			return nil
		}
		return fn(p)
	}
}

// Flex resolves descriptor and renders it in one step.
func Flex(descriptor any, props any) string {
	return Resolve(descriptor, props).Render()
}
