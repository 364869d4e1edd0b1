package bindings

import (
	"fmt"
	"sort"
	"sync"

	"cyclebind/internal/logging"
)

// Registry holds all available binding functions and resolves binding
// specification strings into Funcs. It is thread-safe and supports
// registration at runtime, though the expected pattern is registration
// at startup followed by concurrent read-only lookups.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	// byCategory provides fast lookup by category.
	byCategory map[Category][]*Entry
}

// NewRegistry creates a new empty binding-function registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:    make(map[string]*Entry),
		byCategory: make(map[Category][]*Entry),
	}
}

// Register adds a binding function to the registry.
// Returns an error if an entry with the same name already exists.
func (r *Registry) Register(entry *Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid binding function: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, entry.Name)
	}

	if entry.Category == "" {
		entry.Category = CategoryGeneral
	}

	r.entries[entry.Name] = entry
	r.byCategory[entry.Category] = append(r.byCategory[entry.Category], entry)

	logging.BindingsDebug("Registered binding function: %s (category=%s, threadsafe=%v)",
		entry.Name, entry.Category, entry.ThreadSafe)
	return nil
}

// MustRegister registers a binding function and panics on error.
// Use this for static registration at init time.
func (r *Registry) MustRegister(entry *Entry) {
	if err := r.Register(entry); err != nil {
		panic(fmt.Sprintf("failed to register binding function %s: %v", entry.Name, err))
	}
}

// Get returns an entry by function name, or nil if not found.
func (r *Registry) Get(name string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[name]
}

// Has returns true if a function with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Lookup parses a binding specification string like "AlphaNumeric(8)"
// and constructs a Func from the registered entry. Returns
// ErrFuncNotFound (wrapped) when the named function is not registered.
func (r *Registry) Lookup(spec string) (Func, error) {
	call, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}

	entry := r.Get(call.Name)
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrFuncNotFound, call.Name)
	}

	fn, err := entry.Construct(call.Args)
	if err != nil {
		return nil, fmt.Errorf("constructing %q: %w", spec, err)
	}
	return fn, nil
}

// GetByCategory returns all entries in a category, sorted by name.
func (r *Registry) GetByCategory(category Category) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*Entry, len(r.byCategory[category]))
	copy(entries, r.byCategory[category])

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// All returns all registered entries sorted by name.
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Names returns all registered function names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered functions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Global registry instance for convenience.
var globalRegistry = NewRegistry()

// Global returns the global binding-function registry, pre-populated
// with the builtin function library.
func Global() *Registry {
	return globalRegistry
}

// Register adds a binding function to the global registry.
func Register(entry *Entry) error {
	return globalRegistry.Register(entry)
}

// Lookup resolves a spec against the global registry.
func Lookup(spec string) (Func, error) {
	return globalRegistry.Lookup(spec)
}
