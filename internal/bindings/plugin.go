package bindings

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"cyclebind/internal/logging"
	"cyclebind/internal/values"
)

const (
	pluginFuncsName  = "BindingFuncs"
	pluginUnsafeName = "ThreadUnsafe"
)

// LoadPluginDir evaluates every .go file in dir and registers the
// binding functions it declares into reg. Each plugin file must define
//
//	func BindingFuncs() map[string]func(int64) any
//
// and may optionally define
//
//	func ThreadUnsafe() []string
//
// naming the functions that do not tolerate concurrent invocation.
// Plugin functions take no spec arguments; a spec using one is written
// as a bare name, e.g. "MyGenerator".
func LoadPluginDir(reg *Registry, dir string) (int, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		n, err := loadPluginFile(reg, filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return loaded, err
		}
		loaded += n
	}
	return loaded, nil
}

func loadPluginFile(reg *Registry, path string) (int, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return 0, fmt.Errorf("plugin: %s is empty", path)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return 0, fmt.Errorf("plugin: stdlib symbols for %s: %w", path, err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return 0, fmt.Errorf("plugin: interpret %s: %w", path, err)
	}

	fnValue, err := i.Eval(pluginFuncsName)
	if err != nil {
		return 0, fmt.Errorf("plugin: %s must define %s() map[string]func(int64) any: %w",
			path, pluginFuncsName, err)
	}
	funcs, err := invokeBindingFuncs(fnValue)
	if err != nil {
		return 0, fmt.Errorf("plugin: %s: %w", path, err)
	}

	unsafe := map[string]bool{}
	if unsafeVal, err := i.Eval(pluginUnsafeName); err == nil {
		for _, name := range invokeStringSlice(unsafeVal) {
			unsafe[name] = true
		}
	}

	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fn := funcs[name]
		entry := &Entry{
			Name:        name,
			Description: fmt.Sprintf("plugin function from %s", filepath.Base(path)),
			Category:    CategoryGeneral,
			ThreadSafe:  !unsafe[name],
			Construct: func(args []values.Value) (Func, error) {
				if len(args) != 0 {
					return nil, fmt.Errorf("%w: plugin functions take no arguments", ErrBadArgs)
				}
				return fn, nil
			},
		}
		if err := reg.Register(entry); err != nil {
			return 0, fmt.Errorf("plugin: %s: %w", path, err)
		}
		logging.BindingsDebug("Loaded plugin binding function %s from %s", name, path)
	}
	return len(names), nil
}

func invokeBindingFuncs(value reflect.Value) (map[string]Func, error) {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", pluginFuncsName)
	}
	results := value.Call(nil)
	if len(results) != 1 {
		return nil, fmt.Errorf("%s must return map[string]func(int64) any", pluginFuncsName)
	}
	raw := results[0]
	if raw.Kind() != reflect.Map {
		return nil, fmt.Errorf("%s must return a map, got %s", pluginFuncsName, raw.Kind())
	}

	funcs := make(map[string]Func, raw.Len())
	iter := raw.MapRange()
	for iter.Next() {
		name, ok := iter.Key().Interface().(string)
		if !ok {
			return nil, fmt.Errorf("%s keys must be strings", pluginFuncsName)
		}
		fnVal := iter.Value()
		if fnVal.Kind() == reflect.Interface {
			fnVal = fnVal.Elem()
		}
		if fnVal.Kind() != reflect.Func {
			return nil, fmt.Errorf("%s[%q] is not a function", pluginFuncsName, name)
		}
		funcs[name] = wrapPluginFunc(fnVal)
	}
	return funcs, nil
}

// wrapPluginFunc adapts an interpreted func(int64) any into a Func via
// reflection. Interpreted functions come back as reflect values rather
// than directly assertable Go funcs.
func wrapPluginFunc(fnVal reflect.Value) Func {
	if direct, ok := fnVal.Interface().(func(int64) any); ok {
		return direct
	}
	return func(cycle int64) any {
		out := fnVal.Call([]reflect.Value{reflect.ValueOf(cycle)})
		if len(out) == 0 {
			return nil
		}
		return out[0].Interface()
	}
}

func invokeStringSlice(value reflect.Value) []string {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil
	}
	results := value.Call(nil)
	if len(results) != 1 {
		return nil
	}
	raw := results[0]
	if raw.Kind() != reflect.Slice {
		return nil
	}
	out := make([]string, 0, raw.Len())
	for i := 0; i < raw.Len(); i++ {
		if s, ok := raw.Index(i).Interface().(string); ok {
			out = append(out, s)
		}
	}
	return out
}
