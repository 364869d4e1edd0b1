// Package bindings provides the binding-function registry: the mapping
// from binding specification strings like "AlphaNumeric(8)" to cycle
// functions that produce a value for a given cycle number.
//
// Architecture:
//
//	spec string → ParseSpec → Registry.Lookup → Entry.Construct → Func
//
// Every Func handed out by the registry must tolerate concurrent
// invocation: compiled commands are shared read-only across all worker
// goroutines of the execution loop.
package bindings

import "cyclebind/internal/values"

// Func produces the value for one cycle. Implementations must be safe
// for concurrent use and should be deterministic for a given cycle.
type Func func(cycle int64) any

// Category classifies binding functions for listing and documentation.
type Category string

const (
	// CategoryText covers string-producing generators.
	CategoryText Category = "/text"

	// CategoryNumeric covers integer and float generators.
	CategoryNumeric Category = "/numeric"

	// CategoryDistribution covers weighted and sampled generators.
	CategoryDistribution Category = "/distribution"

	// CategoryIdentity covers identifier generators (UUIDs and the like).
	CategoryIdentity Category = "/identity"

	// CategoryGeneral is for functions that fit nowhere else.
	CategoryGeneral Category = "/general"
)

// ConstructFunc builds a Func from the arguments of a spec call.
type ConstructFunc func(args []values.Value) (Func, error)

// Entry describes one registered binding function. Thread-safety and
// category are plain data fields on the entry, populated at startup,
// rather than being discovered from external metadata.
type Entry struct {
	// Name is the function name as written in a spec, e.g. "AlphaNumeric".
	Name string

	// Description explains what the function generates.
	Description string

	// Category classifies the function for listing.
	Category Category

	// ThreadSafe records whether constructed Funcs tolerate concurrent
	// calls. Everything shipped in this package is thread safe; the
	// field exists so plugins can declare otherwise and be rejected by
	// callers that require concurrency.
	ThreadSafe bool

	// Construct builds a Func from the parsed spec arguments.
	Construct ConstructFunc
}

// Validate checks that the entry is usable.
func (e *Entry) Validate() error {
	if e.Name == "" {
		return ErrFuncNameEmpty
	}
	if e.Construct == nil {
		return ErrConstructNil
	}
	return nil
}
