package values

// Convert coerces an arbitrary value to the requested type T, going
// through the tagged Value accessors. It never performs an implicit
// cast: incompatible values surface a TypeMismatchError.
func Convert[T any](v any) (T, error) {
	var zero T
	val := From(v)
	if val.IsAbsent() {
		return zero, &TypeMismatchError{Want: kindOf(zero), Got: KindAbsent, Raw: nil}
	}

	switch any(zero).(type) {
	case string:
		s, err := val.AsString()
		if err != nil {
			return zero, err
		}
		return any(s).(T), nil
	case int:
		n, err := val.AsInt()
		if err != nil {
			return zero, err
		}
		return any(int(n)).(T), nil
	case int64:
		n, err := val.AsInt()
		if err != nil {
			return zero, err
		}
		return any(n).(T), nil
	case float64:
		f, err := val.AsFloat()
		if err != nil {
			return zero, err
		}
		return any(f).(T), nil
	case bool:
		b, err := val.AsBool()
		if err != nil {
			return zero, err
		}
		return any(b).(T), nil
	default:
		// T is any or a non-scalar type: only an exact runtime match
		// satisfies it. For T == any this always succeeds.
		if t, ok := v.(T); ok {
			return t, nil
		}
		return zero, &TypeMismatchError{Want: kindOf(zero), Got: val.Kind(), Raw: val.Raw()}
	}
}

// ConvertOr coerces v to the type of def, falling back to def when the
// value is absent or the coercion fails.
func ConvertOr[T any](v any, def T) T {
	out, err := Convert[T](v)
	if err != nil {
		return def
	}
	return out
}

func kindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case int, int64:
		return KindInt
	case float64:
		return KindFloat
	case bool:
		return KindBool
	case []any:
		return KindSeq
	case map[string]any:
		return KindMap
	default:
		return KindAbsent
	}
}
