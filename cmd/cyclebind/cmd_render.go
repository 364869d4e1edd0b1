package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cyclebind/internal/bindings"
	"cyclebind/internal/command"
	"cyclebind/internal/logging"
	"cyclebind/internal/workload"
)

var (
	renderCycles  int64
	renderStart   int64
	renderOp      string
	renderWorkers int
	renderWatch   bool
)

var renderCmd = &cobra.Command{
	Use:   "render <workload.yaml>",
	Short: "Render cycles of a workload op as JSON lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := bindings.Global()
		if err := loadPlugins(reg); err != nil {
			return err
		}

		path := args[0]
		if err := renderOnce(reg, path); err != nil {
			return err
		}
		if !renderWatch {
			return nil
		}

		// Watch mode: recompile and re-render after each change until
		// interrupted.
		w, err := workload.Watch(path, 300*time.Millisecond, func(doc *workload.Document, err error) {
			if err != nil {
				logger.Error("Reload failed", zap.Error(err))
				return
			}
			if err := renderDoc(reg, doc); err != nil {
				logger.Error("Render failed", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
		defer w.Stop()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return nil
	},
}

func init() {
	renderCmd.Flags().Int64Var(&renderCycles, "cycles", 10, "number of cycles to render")
	renderCmd.Flags().Int64Var(&renderStart, "start", 0, "first cycle number")
	renderCmd.Flags().StringVar(&renderOp, "op", "", "render only the named op (default: all ops)")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", runtime.NumCPU(), "concurrent render workers")
	renderCmd.Flags().BoolVar(&renderWatch, "watch", false, "re-render whenever the workload file changes")
}

func renderOnce(reg *bindings.Registry, path string) error {
	doc, err := workload.Load(path)
	if err != nil {
		return err
	}
	return renderDoc(reg, doc)
}

func renderDoc(reg *bindings.Registry, doc *workload.Document) error {
	ops := doc.Ops
	if renderOp != "" {
		op := doc.Op(renderOp)
		if op == nil {
			return fmt.Errorf("workload has no op named %q", renderOp)
		}
		ops = ops[:0:0]
		ops = append(ops, op)
	}

	for _, op := range ops {
		c, err := compileOp(doc, reg, op.Name())
		if err != nil {
			return err
		}
		if err := renderCommand(c); err != nil {
			return err
		}
	}
	return nil
}

// renderCommand realizes renderCycles cycles of one compiled command,
// splitting the range across workers, and writes them to stdout in
// cycle order.
func renderCommand(c *command.CompiledCommand) error {
	start := time.Now()
	n := renderCycles
	if n <= 0 {
		return nil
	}

	lines := make([][]byte, n)
	workers := renderWorkers
	if workers < 1 {
		workers = 1
	}

	var eg errgroup.Group
	eg.SetLimit(workers)
	chunk := (n + int64(workers) - 1) / int64(workers)
	for lo := int64(0); lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				cycle := renderStart + i
				row := map[string]any{
					"op":     c.Name(),
					"cycle":  cycle,
					"fields": c.Apply(cycle),
				}
				data, err := json.Marshal(row)
				if err != nil {
					return fmt.Errorf("op %q cycle %d: %w", c.Name(), cycle, err)
				}
				lines[i] = data
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	out := os.Stdout
	for _, line := range lines {
		fmt.Fprintln(out, string(line))
	}

	logging.Render("Rendered %d cycles of %s in %v", n, c.Name(), time.Since(start))
	logger.Debug("Rendered op",
		zap.String("op", c.Name()),
		zap.Int64("cycles", n),
		zap.Duration("took", time.Since(start)))
	return nil
}
