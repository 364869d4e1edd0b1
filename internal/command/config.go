package command

import (
	"cyclebind/internal/values"
)

// Multi-tier config resolution. Two modes exist: strict-static, which
// refuses to look at dynamic fields, and cycle-aware, which evaluates
// them. Tier precedence is strict and identical for every caller:
// op fields first, then op params, then activity config.

// StaticConfigOr resolves the named parameter through the static
// tiers: static fields, then op params, then activity config. A name
// defined only dynamically is an error: static-only call sites must
// never silently receive a per-cycle value. Coercion failures fall
// back to the default.
func StaticConfigOr[T any](c *CompiledCommand, name string, def T) (T, error) {
	if v, ok := c.StaticValue(name); ok {
		return values.ConvertOr(v.Raw(), def), nil
	}
	if v, ok := c.params[name]; ok {
		return values.ConvertOr(v, def), nil
	}
	if c.acfg.Has(name) {
		return values.ConvertOr(c.acfg.Get(name), def), nil
	}
	if c.IsDefinedDynamic(name) {
		return def, &StrictDynamicFieldError{Op: c.name, Field: name}
	}
	return def, nil
}

// OptionalStaticConfig is the optional form of StaticConfigOr: the
// second return reports presence, and a present-but-incompatible value
// surfaces its coercion error instead of being papered over.
func OptionalStaticConfig[T any](c *CompiledCommand, name string) (T, bool, error) {
	var zero T
	if v, ok := c.StaticValue(name); ok {
		out, err := values.Convert[T](v.Raw())
		return out, err == nil, err
	}
	if v, ok := c.params[name]; ok {
		out, err := values.Convert[T](v)
		return out, err == nil, err
	}
	if c.acfg.Has(name) {
		out, err := values.Convert[T](c.acfg.Get(name))
		return out, err == nil, err
	}
	if c.IsDefinedDynamic(name) {
		return zero, false, &StrictDynamicFieldError{Op: c.name, Field: name}
	}
	return zero, false, nil
}

// ConfigOr is the cycle-aware form of StaticConfigOr: dynamic fields
// are evaluated at the given cycle instead of being an error. This is
// the one resolution path that tolerates dynamic fields on the hot
// path, and it never raises configuration errors.
func ConfigOr[T any](c *CompiledCommand, name string, def T, cycle int64) T {
	if v, ok := c.StaticValue(name); ok {
		return values.ConvertOr(v.Raw(), def)
	}
	if fn := c.Mapper(name); fn != nil {
		return values.ConvertOr(fn(cycle), def)
	}
	if v, ok := c.params[name]; ok {
		return values.ConvertOr(v, def)
	}
	if c.acfg.Has(name) {
		return values.ConvertOr(c.acfg.Get(name), def)
	}
	return def
}

// StaticFieldOr resolves only against the op's own fields: the static
// value when present, an error when the name is dynamic, the default
// when absent. Params and activity config are not consulted.
func StaticFieldOr[T any](c *CompiledCommand, name string, def T) (T, error) {
	if v, ok := c.StaticValue(name); ok {
		return values.ConvertOr(v.Raw(), def), nil
	}
	if c.IsDefinedDynamic(name) {
		return def, &StrictDynamicFieldError{Op: c.name, Field: name}
	}
	return def, nil
}
