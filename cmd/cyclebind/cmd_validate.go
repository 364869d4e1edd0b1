package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cyclebind/internal/bindings"
	"cyclebind/internal/workload"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workload.yaml>",
	Short: "Compile every op in a workload and report authoring defects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := bindings.Global()
		if err := loadPlugins(reg); err != nil {
			return err
		}

		doc, err := workload.Load(args[0])
		if err != nil {
			return err
		}

		failed := 0
		for _, op := range doc.Ops {
			c, err := compileOp(doc, reg, op.Name())
			if err != nil {
				failed++
				logger.Error("Op failed to compile", zap.String("op", op.Name()), zap.Error(err))
				fmt.Printf("FAIL  %s: %v\n", op.Name(), err)
				continue
			}
			fmt.Printf("ok    %s: %d fields (%d static, %d dynamic)\n",
				c.Name(), c.Size(), c.Size()-len(c.DynamicNames()), len(c.DynamicNames()))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d ops failed to compile", failed, len(doc.Ops))
		}
		logger.Info("Workload valid", zap.Int("ops", len(doc.Ops)))
		return nil
	},
}
