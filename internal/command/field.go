package command

import "cyclebind/internal/bindings"

// fieldKind tags one compiled field as static or dynamic. A field is
// exactly one of the two; the single-slice representation makes the
// invariant structural rather than something two maps must agree on.
type fieldKind int

const (
	fieldStatic fieldKind = iota
	fieldDynamic
)

// field is one compiled template field in original template order.
type field struct {
	name  string
	kind  fieldKind
	value any           // set for fieldStatic
	fn    bindings.Func // set for fieldDynamic
}

func (f *field) isStatic() bool  { return f.kind == fieldStatic }
func (f *field) isDynamic() bool { return f.kind == fieldDynamic }
