package command

import (
	"fmt"

	"cyclebind/internal/bindings"
	"cyclebind/internal/parser"
	"cyclebind/internal/template"
)

// Structural binders adapt a list of field names into a positional
// container resolved per cycle. All three resolve each field exactly
// like Get: static fields return their constant, dynamic fields are
// evaluated at the cycle, absent fields yield nil. Callers that need
// presence must validate with RequireStaticFields or IsDefinedAll
// before building the binder.

// NewListBinder returns a per-cycle resolver producing the requested
// fields as an ordered sequence, in request order.
func (c *CompiledCommand) NewListBinder(fields ...string) func(cycle int64) []any {
	names := append([]string(nil), fields...)
	return func(cycle int64) []any {
		out := make([]any, 0, len(names))
		for _, name := range names {
			out = append(out, c.Get(name, cycle))
		}
		return out
	}
}

// NewArrayBinder is NewListBinder into a fixed-size container: the
// result slice is allocated at its final length and never resized.
func (c *CompiledCommand) NewArrayBinder(fields ...string) func(cycle int64) []any {
	names := append([]string(nil), fields...)
	return func(cycle int64) []any {
		out := make([]any, len(names))
		for i, name := range names {
			out[i] = c.Get(name, cycle)
		}
		return out
	}
}

// NewOrderedMapBinder returns a per-cycle resolver producing an
// ordered field-name-to-value mapping, preserving request order.
func (c *CompiledCommand) NewOrderedMapBinder(fields ...string) func(cycle int64) *template.FieldMap {
	names := append([]string(nil), fields...)
	return func(cycle int64) *template.FieldMap {
		out := template.NewFieldMap()
		for _, name := range names {
			out.Set(name, c.Get(name, cycle))
		}
		return out
	}
}

// NewArrayBinderFromPoints builds a fixed-size positional binder
// directly from bind points, resolving each point's specification
// through the registry. Unlike the name-based binders this fails fast
// on an unresolvable specification, since the caller is handing us
// specs rather than compiled field names.
func NewArrayBinderFromPoints(reg *bindings.Registry, points []parser.BindPoint) (func(cycle int64) []any, error) {
	fns := make([]bindings.Func, len(points))
	for i, point := range points {
		fn, err := reg.Lookup(point.Spec)
		if err != nil {
			return nil, fmt.Errorf("bind point %q: %w: %v", point.Name, ErrUnresolvedBinding, err)
		}
		fns[i] = fn
	}
	return func(cycle int64) []any {
		out := make([]any, len(fns))
		for i, fn := range fns {
			out[i] = fn(cycle)
		}
		return out
	}, nil
}
