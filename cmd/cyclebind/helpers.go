package main

import (
	"fmt"

	"go.uber.org/zap"

	"cyclebind/internal/bindings"
	"cyclebind/internal/command"
	"cyclebind/internal/workload"
)

// loadPlugins loads binding-function plugins from the --plugins
// directory, when one was given.
func loadPlugins(reg *bindings.Registry) error {
	if plugins == "" {
		return nil
	}
	n, err := bindings.LoadPluginDir(reg, plugins)
	if err != nil {
		return fmt.Errorf("loading plugins: %w", err)
	}
	logger.Info("Loaded binding plugins", zap.String("dir", plugins), zap.Int("functions", n))
	return nil
}

// compileOp compiles one named op from a loaded workload document.
func compileOp(doc *workload.Document, reg *bindings.Registry, name string) (*command.CompiledCommand, error) {
	op := doc.Op(name)
	if op == nil {
		return nil, fmt.Errorf("workload has no op named %q", name)
	}
	return command.CompileWith(reg, op, doc.ActivityConfig())
}
