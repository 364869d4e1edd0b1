// Package command compiles an operation template into a CompiledCommand
// and realizes it once per execution cycle.
//
// Compilation classifies every field exactly once: non-string values
// and literal strings become static fields; bind references and
// concatenations become dynamic fields backed by binding functions.
// The compiled command is immutable after construction and is shared
// read-only across all worker goroutines for the lifetime of a run, so
// the per-cycle hot path never re-parses, re-classifies, or raises
// configuration errors.
package command

import (
	"fmt"
	"strings"

	"cyclebind/internal/activity"
	"cyclebind/internal/bindings"
	"cyclebind/internal/logging"
	"cyclebind/internal/parser"
	"cyclebind/internal/template"
	"cyclebind/internal/values"
)

// CompiledCommand is the compiled, replayable form of one operation
// template. Build it once at setup with Compile; after that every
// method is a pure read and safe for concurrent use.
type CompiledCommand struct {
	name string

	// fields holds every compiled field in original template order.
	// A name appears exactly once, as either static or dynamic.
	fields []field
	index  map[string]int

	// dynamicIdx indexes the dynamic fields for the Apply fast path.
	dynamicIdx []int

	// skeleton is the reusable prototype map: static entries carry
	// their value, dynamic entries a nil placeholder. Apply clones it
	// on every call; the original is never mutated.
	skeleton map[string]any

	// captures holds one capture-point group per string-valued field,
	// in field-iteration order.
	captures [][]parser.CapturePoint

	size   int
	params map[string]any
	acfg   *activity.Config

	// stmt is the pre-parsed statement template, when the op declared
	// one.
	stmt *parser.ParsedTemplate
}

// Compile builds a CompiledCommand from an operation template using
// the global binding-function registry.
func Compile(op *template.OpTemplate, acfg *activity.Config, pre ...template.Preprocessor) (*CompiledCommand, error) {
	return CompileWith(bindings.Global(), op, acfg, pre...)
}

// CompileWith is Compile with an explicit registry. Preprocessors are
// applied to the raw field map, in order, before any classification.
// Authoring defects (a missing field map, a bind point whose
// specification has no registered function) fail here, never at cycle
// time.
func CompileWith(reg *bindings.Registry, op *template.OpTemplate, acfg *activity.Config, pre ...template.Preprocessor) (*CompiledCommand, error) {
	if acfg == nil {
		acfg = activity.NewConfig(nil)
	}

	raw, err := op.FieldMap()
	if err != nil {
		return nil, fmt.Errorf("compiling op %q: %w", op.Name(), err)
	}
	for _, p := range pre {
		raw = p(raw)
	}

	c := &CompiledCommand{
		name:     op.Name(),
		index:    make(map[string]int),
		skeleton: make(map[string]any, raw.Len()),
		params:   op.Params(),
		acfg:     acfg,
	}

	var compileErr error
	raw.Range(func(name string, value any) bool {
		compileErr = c.compileField(reg, name, value, op.Bindings())
		return compileErr == nil
	})
	if compileErr != nil {
		return nil, fmt.Errorf("compiling op %q: %w", op.Name(), compileErr)
	}

	if stmt, ok := op.Statement(); ok {
		parsed, err := parser.Parse(stmt, op.Bindings())
		if err != nil {
			return nil, fmt.Errorf("compiling op %q statement: %w", op.Name(), err)
		}
		c.stmt = parsed
	}

	c.size = len(c.fields)
	logging.CompileDebug("Compiled op %s: %d static, %d dynamic, %d captures",
		c.name, c.size-len(c.dynamicIdx), len(c.dynamicIdx), len(c.captures))
	return c, nil
}

func (c *CompiledCommand) compileField(reg *bindings.Registry, name string, value any, bindingSpecs map[string]string) error {
	str, isString := stringValue(value)
	if !isString {
		// Nested and mixed static/dynamic structure is not supported;
		// non-string values are copied through whole.
		c.addStatic(name, value)
		return nil
	}

	pt, err := parser.Parse(str, bindingSpecs)
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	c.captures = append(c.captures, pt.Captures)

	switch pt.Kind {
	case parser.KindLiteral:
		c.addStatic(name, pt.Literal)
	case parser.KindBindRef:
		fn, err := reg.Lookup(pt.Point.Spec)
		if err != nil {
			return fmt.Errorf("field %q binding %q: %w: %v", name, pt.Point.Name, ErrUnresolvedBinding, err)
		}
		c.addDynamic(name, fn)
	case parser.KindConcat:
		fn, err := concatFunc(reg, pt.Segments)
		if err != nil {
			return fmt.Errorf("field %q: %w: %v", name, ErrUnresolvedBinding, err)
		}
		c.addDynamic(name, fn)
	}
	return nil
}

func (c *CompiledCommand) addStatic(name string, value any) {
	c.index[name] = len(c.fields)
	c.fields = append(c.fields, field{name: name, kind: fieldStatic, value: value})
	c.skeleton[name] = value
}

func (c *CompiledCommand) addDynamic(name string, fn bindings.Func) {
	c.index[name] = len(c.fields)
	c.dynamicIdx = append(c.dynamicIdx, len(c.fields))
	c.fields = append(c.fields, field{name: name, kind: fieldDynamic, fn: fn})
	c.skeleton[name] = nil
}

// concatFunc builds one composite binding function that evaluates each
// literal/bind segment in order and joins them for a given cycle.
func concatFunc(reg *bindings.Registry, segments []parser.Segment) (bindings.Func, error) {
	type part struct {
		literal string
		fn      bindings.Func
	}
	parts := make([]part, 0, len(segments))
	for _, seg := range segments {
		if seg.Bind == nil {
			parts = append(parts, part{literal: seg.Literal})
			continue
		}
		fn, err := reg.Lookup(seg.Bind.Spec)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", seg.Bind.Name, err)
		}
		parts = append(parts, part{fn: fn})
	}

	return func(cycle int64) any {
		var b strings.Builder
		for _, p := range parts {
			if p.fn == nil {
				b.WriteString(p.literal)
				continue
			}
			b.WriteString(stringify(p.fn(cycle)))
		}
		return b.String()
	}, nil
}

func stringify(v any) string {
	if s, err := values.From(v).AsString(); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return "", false
	}
}

// Name returns the operation name this command was compiled from.
func (c *CompiledCommand) Name() string { return c.name }

// Size returns the total field count, statics plus dynamics.
func (c *CompiledCommand) Size() int { return c.size }

// Apply realizes the full field mapping for one cycle: a fresh clone
// of the skeleton with every dynamic field overwritten by its binding
// function's output. Safe to call concurrently with distinct cycles;
// callers own the returned map.
func (c *CompiledCommand) Apply(cycle int64) map[string]any {
	out := make(map[string]any, len(c.skeleton))
	for k, v := range c.skeleton {
		out[k] = v
	}
	for _, i := range c.dynamicIdx {
		f := &c.fields[i]
		out[f.name] = f.fn(cycle)
	}
	return out
}

// Get returns the named field's value for a cycle: the constant for a
// static field, the function output for a dynamic one, nil when the
// name is defined in neither.
func (c *CompiledCommand) Get(name string, cycle int64) any {
	i, ok := c.index[name]
	if !ok {
		return nil
	}
	f := &c.fields[i]
	if f.isStatic() {
		return f.value
	}
	return f.fn(cycle)
}

// GetAsFuncOr lifts the named field into a binding function: a constant
// function for statics and absent names, the bound function for
// dynamics.
func (c *CompiledCommand) GetAsFuncOr(name string, def any) bindings.Func {
	i, ok := c.index[name]
	if !ok {
		return func(int64) any { return def }
	}
	f := &c.fields[i]
	if f.isStatic() {
		v := f.value
		return func(int64) any { return v }
	}
	return f.fn
}

// StaticValue returns the tagged form of a static field's value.
// The second return is false when the name is not a static field.
func (c *CompiledCommand) StaticValue(name string) (values.Value, bool) {
	i, ok := c.index[name]
	if !ok || !c.fields[i].isStatic() {
		return values.Absent, false
	}
	return values.From(c.fields[i].value), true
}

// Mapper returns the binding function behind a dynamic field, or nil.
func (c *CompiledCommand) Mapper(name string) bindings.Func {
	i, ok := c.index[name]
	if !ok || !c.fields[i].isDynamic() {
		return nil
	}
	return c.fields[i].fn
}

// IsDefinedStatic reports whether name is a static field.
func (c *CompiledCommand) IsDefinedStatic(name string) bool {
	i, ok := c.index[name]
	return ok && c.fields[i].isStatic()
}

// IsDefinedDynamic reports whether name is a dynamic field.
func (c *CompiledCommand) IsDefinedDynamic(name string) bool {
	i, ok := c.index[name]
	return ok && c.fields[i].isDynamic()
}

// IsDefined reports whether name is a field of either class.
func (c *CompiledCommand) IsDefined(name string) bool {
	_, ok := c.index[name]
	return ok
}

// IsUndefined reports whether name is absent from both classes.
func (c *CompiledCommand) IsUndefined(name string) bool {
	return !c.IsDefined(name)
}

// IsDefinedAll reports whether every name is a field of either class.
func (c *CompiledCommand) IsDefinedAll(names ...string) bool {
	for _, name := range names {
		if !c.IsDefined(name) {
			return false
		}
	}
	return true
}

// IsDefinedStaticAll reports whether every name is a static field.
func (c *CompiledCommand) IsDefinedStaticAll(names ...string) bool {
	for _, name := range names {
		if !c.IsDefinedStatic(name) {
			return false
		}
	}
	return true
}

// RequireStaticFields succeeds only when every name is a static field.
// On failure it reports the entire missing subset in one error.
func (c *CompiledCommand) RequireStaticFields(names ...string) error {
	var missing []string
	for _, name := range names {
		if !c.IsDefinedStatic(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingStaticFieldsError{Op: c.name, Missing: missing}
	}
	return nil
}

// DefinedNames returns every field name, static and dynamic, in
// original template order.
func (c *CompiledCommand) DefinedNames() []string {
	names := make([]string, len(c.fields))
	for i := range c.fields {
		names[i] = c.fields[i].name
	}
	return names
}

// StaticPrototype returns the static fields as an ordered map.
func (c *CompiledCommand) StaticPrototype() *template.FieldMap {
	fm := template.NewFieldMap()
	for i := range c.fields {
		if c.fields[i].isStatic() {
			fm.Set(c.fields[i].name, c.fields[i].value)
		}
	}
	return fm
}

// DynamicNames returns the dynamic field names in template order.
func (c *CompiledCommand) DynamicNames() []string {
	names := make([]string, 0, len(c.dynamicIdx))
	for _, i := range c.dynamicIdx {
		names = append(names, c.fields[i].name)
	}
	return names
}

// Captures returns the capture-point groups, one group per
// string-valued field, in field-iteration order.
func (c *CompiledCommand) Captures() [][]parser.CapturePoint {
	return c.captures
}

// ParsedStatement returns the pre-parsed statement template, when the
// op declared one.
func (c *CompiledCommand) ParsedStatement() (*parser.ParsedTemplate, bool) {
	return c.stmt, c.stmt != nil
}
