package bindings

import (
	"errors"
	"testing"

	"cyclebind/internal/values"
)

func constantEntry(name string, v any) *Entry {
	return &Entry{
		Name:       name,
		Category:   CategoryGeneral,
		ThreadSafe: true,
		Construct: func(args []values.Value) (Func, error) {
			return func(int64) any { return v }, nil
		},
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if reg.Count() != 0 {
		t.Errorf("new registry should be empty, got %d entries", reg.Count())
	}
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(constantEntry("test_func", "x")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := reg.Get("test_func")
	if got == nil {
		t.Fatal("Get returned nil for registered function")
	}
	if got.Name != "test_func" {
		t.Errorf("got name %q, want %q", got.Name, "test_func")
	}
	if !reg.Has("test_func") {
		t.Error("Has returned false for registered function")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(constantEntry("dupe", 1)); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	err := reg.Register(constantEntry("dupe", 2))
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name    string
		entry   *Entry
		wantErr error
	}{
		{
			name:    "empty name",
			entry:   &Entry{Name: "", Construct: func([]values.Value) (Func, error) { return nil, nil }},
			wantErr: ErrFuncNameEmpty,
		},
		{
			name:    "nil constructor",
			entry:   &Entry{Name: "test", Construct: nil},
			wantErr: ErrConstructNil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.entry)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLookupConstructs(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(constantEntry("Fixed", "hello")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	fn, err := reg.Lookup("Fixed()")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := fn(0); got != "hello" {
		t.Errorf("fn(0) = %v, want hello", got)
	}
}

func TestLookupNotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Lookup("Missing(1)")
	if !errors.Is(err, ErrFuncNotFound) {
		t.Fatalf("expected ErrFuncNotFound, got %v", err)
	}
}

func TestNamesSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		if err := reg.Register(constantEntry(name, name)); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}
	names := reg.Names()
	want := []string{"Alpha", "Mid", "Zeta"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestGlobalHasBuiltins(t *testing.T) {
	for _, name := range []string{"AlphaNumeric", "Hash", "Mod", "FixedValue", "ToUUID"} {
		if !Global().Has(name) {
			t.Errorf("global registry missing builtin %s", name)
		}
	}
}
