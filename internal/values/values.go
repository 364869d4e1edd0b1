// Package values provides the tagged value variant used for field values
// and the best-effort type coercion applied at config resolution time.
//
// Field values arrive from YAML decoding or from binding functions as
// plain Go values. Rather than relying on bare type assertions that panic
// on mismatch, callers go through a Value with explicit, fallible
// accessors, or through the Convert/ConvertOr coercion helpers.
package values

import (
	"fmt"
	"strconv"
)

// Kind identifies the runtime class of a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindSeq
	KindMap
)

// String returns a human-readable kind name for error messages.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// TypeMismatchError reports a value that could not be coerced to the
// kind a caller required.
type TypeMismatchError struct {
	Want Kind
	Got  Kind
	Raw  any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: have %s (%v), need %s", e.Got, e.Raw, e.Want)
}

// Value is a tagged variant over the value types that can appear in an
// operation template field or a config parameter.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	seq  []Value
	m    map[string]Value
	raw  any
}

// Absent is the zero Value, returned for names defined nowhere.
var Absent = Value{kind: KindAbsent}

// From classifies an arbitrary Go value into a tagged Value.
// Unknown types are stringified rather than rejected, since template
// authors can put anything YAML can express into a field.
func From(v any) Value {
	switch t := v.(type) {
	case nil:
		return Absent
	case Value:
		return t
	case string:
		return Value{kind: KindString, s: t, raw: v}
	case []byte:
		return Value{kind: KindString, s: string(t), raw: v}
	case int:
		return Value{kind: KindInt, i: int64(t), raw: v}
	case int32:
		return Value{kind: KindInt, i: int64(t), raw: v}
	case int64:
		return Value{kind: KindInt, i: t, raw: v}
	case uint:
		return Value{kind: KindInt, i: int64(t), raw: v}
	case uint64:
		return Value{kind: KindInt, i: int64(t), raw: v}
	case float32:
		return Value{kind: KindFloat, f: float64(t), raw: v}
	case float64:
		return Value{kind: KindFloat, f: t, raw: v}
	case bool:
		return Value{kind: KindBool, b: t, raw: v}
	case []any:
		seq := make([]Value, len(t))
		for i, e := range t {
			seq[i] = From(e)
		}
		return Value{kind: KindSeq, seq: seq, raw: v}
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = From(e)
		}
		return Value{kind: KindMap, m: m, raw: v}
	default:
		return Value{kind: KindString, s: fmt.Sprintf("%v", v), raw: v}
	}
}

// Kind returns the tag of this value.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value holds nothing.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Raw returns the original Go value this Value was built from.
func (v Value) Raw() any {
	if v.kind == KindAbsent {
		return nil
	}
	return v.raw
}

// AsString returns the string form of the value. All scalar kinds
// stringify; seq, map and absent do not.
func (v Value) AsString() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindInt:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64), nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	default:
		return "", &TypeMismatchError{Want: KindString, Got: v.kind, Raw: v.Raw()}
	}
}

// AsInt returns the value as an int64. Strings parse, floats truncate
// only when they carry no fractional part.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindFloat:
		if v.f == float64(int64(v.f)) {
			return int64(v.f), nil
		}
	case KindString:
		if n, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return n, nil
		}
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	}
	return 0, &TypeMismatchError{Want: KindInt, Got: v.kind, Raw: v.Raw()}
}

// AsFloat returns the value as a float64. Ints widen, strings parse.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	case KindString:
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return f, nil
		}
	}
	return 0, &TypeMismatchError{Want: KindFloat, Got: v.kind, Raw: v.Raw()}
}

// AsBool returns the value as a bool. Strings parse with strconv rules,
// ints treat zero as false.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindString:
		if b, err := strconv.ParseBool(v.s); err == nil {
			return b, nil
		}
	case KindInt:
		return v.i != 0, nil
	}
	return false, &TypeMismatchError{Want: KindBool, Got: v.kind, Raw: v.Raw()}
}

// AsSeq returns the value as a sequence of Values.
func (v Value) AsSeq() ([]Value, error) {
	if v.kind == KindSeq {
		return v.seq, nil
	}
	return nil, &TypeMismatchError{Want: KindSeq, Got: v.kind, Raw: v.Raw()}
}

// AsMap returns the value as a name-to-Value mapping.
func (v Value) AsMap() (map[string]Value, error) {
	if v.kind == KindMap {
		return v.m, nil
	}
	return nil, &TypeMismatchError{Want: KindMap, Got: v.kind, Raw: v.Raw()}
}
