// Package activity holds the activity-level configuration: the lowest
// precedence tier consulted when a compiled command resolves a named
// parameter. It is constructed once during setup and read-only after.
package activity

import (
	"cyclebind/internal/values"
)

// Config is an activity-level parameter set.
type Config struct {
	params map[string]any
}

// NewConfig builds a Config from a plain parameter map. A nil map
// yields an empty config.
func NewConfig(params map[string]any) *Config {
	if params == nil {
		params = map[string]any{}
	}
	return &Config{params: params}
}

// AsMap returns the underlying parameter map. Callers must treat it as
// read-only.
func (c *Config) AsMap() map[string]any { return c.params }

// Has reports whether name is configured.
func (c *Config) Has(name string) bool {
	_, ok := c.params[name]
	return ok
}

// Get returns the raw value for name, or nil when absent.
func (c *Config) Get(name string) any { return c.params[name] }

// Value returns the tagged form of the named parameter.
func (c *Config) Value(name string) values.Value {
	v, ok := c.params[name]
	if !ok {
		return values.Absent
	}
	return values.From(v)
}

// GetOr coerces the named parameter to the type of def, falling back
// to def when absent or incompatible.
func GetOr[T any](c *Config, name string, def T) T {
	v, ok := c.params[name]
	if !ok {
		return def
	}
	return values.ConvertOr(v, def)
}
