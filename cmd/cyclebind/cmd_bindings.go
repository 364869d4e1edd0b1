package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cyclebind/internal/bindings"
)

var bindingsCategory string

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "List registered binding functions",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := bindings.Global()
		if err := loadPlugins(reg); err != nil {
			return err
		}

		entries := reg.All()
		if bindingsCategory != "" {
			entries = reg.GetByCategory(bindings.Category(bindingsCategory))
		}

		for _, e := range entries {
			safety := "threadsafe"
			if !e.ThreadSafe {
				safety = "single-threaded"
			}
			fmt.Printf("%-22s %-15s %-15s %s\n", e.Name, e.Category, safety, e.Description)
		}
		fmt.Printf("\n%d functions registered\n", len(entries))
		return nil
	},
}

func init() {
	bindingsCmd.Flags().StringVar(&bindingsCategory, "category", "", "filter by category, e.g. /text")
}
