package template

import "errors"

// ErrNoFields is returned when an operation template carries no field
// mapping. Compilation cannot proceed without one.
var ErrNoFields = errors.New("operation template has no field map")

// Preprocessor transforms a raw field mapping before compilation.
// Preprocessors run in order, single-threaded, during construction;
// they allow field aliasing or restructuring without the compiler
// knowing about either. They receive and return ordered maps so that
// field order survives the chain.
type Preprocessor func(*FieldMap) *FieldMap

// OpTemplate is one user-authored operation: a named field mapping
// with its bindings and operation-level parameters.
type OpTemplate struct {
	name     string
	fields   *FieldMap
	bindings map[string]string
	params   map[string]any

	// statement is the optional pre-parsed form of a designated
	// statement field, populated by the workload loader when the op
	// declares one.
	statement string
}

// NewOpTemplate creates an operation template. fields may be nil, in
// which case FieldMap() returns ErrNoFields at compile time.
func NewOpTemplate(name string, fields *FieldMap, bindings map[string]string, params map[string]any) *OpTemplate {
	if bindings == nil {
		bindings = map[string]string{}
	}
	if params == nil {
		params = map[string]any{}
	}
	return &OpTemplate{name: name, fields: fields, bindings: bindings, params: params}
}

// Name returns the operation name.
func (o *OpTemplate) Name() string { return o.name }

// FieldMap returns the raw field mapping, or ErrNoFields when the
// template has none.
func (o *OpTemplate) FieldMap() (*FieldMap, error) {
	if o.fields == nil || o.fields.Len() == 0 {
		return nil, ErrNoFields
	}
	return o.fields, nil
}

// Bindings returns the binding-name-to-specification mapping.
func (o *OpTemplate) Bindings() map[string]string { return o.bindings }

// Params returns the operation-level parameter mapping.
func (o *OpTemplate) Params() map[string]any { return o.params }

// Statement returns the raw statement template text, if the op
// declared one, for callers that want the pre-parsed form.
func (o *OpTemplate) Statement() (string, bool) {
	return o.statement, o.statement != ""
}

// SetStatement records the raw statement text for later parsing.
func (o *OpTemplate) SetStatement(stmt string) { o.statement = stmt }
