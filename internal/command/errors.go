package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Compilation and resolution errors.
var (
	// ErrUnresolvedBinding is returned when a bind point's specification
	// has no registered binding function.
	ErrUnresolvedBinding = errors.New("unresolved binding")
)

// MissingStaticFieldsError reports every required name absent from the
// static fields, not just the first one found.
type MissingStaticFieldsError struct {
	Op      string
	Missing []string
}

func (e *MissingStaticFieldsError) Error() string {
	missing := append([]string(nil), e.Missing...)
	sort.Strings(missing)
	return fmt.Sprintf("op %q: fields [%s] are required to be defined with static values for this type of operation",
		e.Op, strings.Join(missing, ", "))
}

// StrictDynamicFieldError reports a strict-static lookup that hit a
// name defined only dynamically. Static-only call sites must never
// silently receive a per-cycle function.
type StrictDynamicFieldError struct {
	Op    string
	Field string
}

func (e *StrictDynamicFieldError) Error() string {
	return fmt.Sprintf("op %q: static field %q was defined dynamically; this op form does not support a per-cycle value here",
		e.Op, e.Field)
}
