// Package template defines the operation template: the user-authored
// mapping of field names to literal values or template strings, plus
// its bindings and parameters. Field order is significant and
// compiled commands preserve it, so fields live in an insertion-ordered map.
package template

// FieldMap is an insertion-ordered mapping from field name to value.
// The zero value is not usable; call NewFieldMap.
type FieldMap struct {
	keys []string
	m    map[string]any
}

// NewFieldMap creates an empty ordered field map.
func NewFieldMap() *FieldMap {
	return &FieldMap{m: make(map[string]any)}
}

// FieldMapFrom builds an ordered field map from explicit key order and
// a backing map. Keys absent from the map are skipped.
func FieldMapFrom(order []string, src map[string]any) *FieldMap {
	fm := NewFieldMap()
	for _, k := range order {
		if v, ok := src[k]; ok {
			fm.Set(k, v)
		}
	}
	return fm
}

// Set stores a value, appending the key on first insertion and keeping
// its original position on update.
func (f *FieldMap) Set(key string, value any) {
	if _, exists := f.m[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.m[key] = value
}

// Get returns the value for key and whether it is present.
func (f *FieldMap) Get(key string) (any, bool) {
	v, ok := f.m[key]
	return v, ok
}

// Has reports whether key is present.
func (f *FieldMap) Has(key string) bool {
	_, ok := f.m[key]
	return ok
}

// Len returns the number of entries.
func (f *FieldMap) Len() int { return len(f.keys) }

// Keys returns the keys in insertion order. The slice is shared; do
// not mutate it.
func (f *FieldMap) Keys() []string { return f.keys }

// Range calls fn for every entry in insertion order, stopping early if
// fn returns false.
func (f *FieldMap) Range(fn func(key string, value any) bool) {
	for _, k := range f.keys {
		if !fn(k, f.m[k]) {
			return
		}
	}
}

// Clone returns a shallow copy with the same order.
func (f *FieldMap) Clone() *FieldMap {
	out := &FieldMap{
		keys: append([]string(nil), f.keys...),
		m:    make(map[string]any, len(f.m)),
	}
	for k, v := range f.m {
		out.m[k] = v
	}
	return out
}

// AsMap returns a plain (unordered) map copy of the entries.
func (f *FieldMap) AsMap() map[string]any {
	out := make(map[string]any, len(f.m))
	for k, v := range f.m {
		out[k] = v
	}
	return out
}
