package bindings

import "errors"

// Binding registry errors.
var (
	// ErrFuncNotFound is returned when a spec names an unregistered function.
	ErrFuncNotFound = errors.New("binding function not found")

	// ErrFuncNameEmpty is returned when an entry has no name.
	ErrFuncNameEmpty = errors.New("binding function name cannot be empty")

	// ErrConstructNil is returned when an entry has no constructor.
	ErrConstructNil = errors.New("binding function constructor cannot be nil")

	// ErrAlreadyRegistered is returned when registering a duplicate name.
	ErrAlreadyRegistered = errors.New("binding function already registered")

	// ErrBadSpec is returned when a spec string cannot be parsed.
	ErrBadSpec = errors.New("malformed binding spec")

	// ErrBadArgs is returned when a constructor rejects its arguments.
	ErrBadArgs = errors.New("bad binding function arguments")
)
