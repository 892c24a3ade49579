package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	var unit string
	var iterationCap int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "types [path]",
		Short: "List the type descriptor assigned to every declaration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			results, err := resolveTarget(cmd.Context(), target, iterationCap)
			if err != nil && len(results) == 0 {
				return err
			}
			r, findErr := findResult(results, unit)
			if findErr != nil {
				if err != nil {
					return err
				}
				return findErr
			}

			if jsonOutput {
				return emitJSON(r.Types)
			}
			for _, d := range r.Declarations() {
				fmt.Printf("%s %s (%s): %s\n", d.Kind, d.Name, d.ID, typeLabel(r.Types[d.ID]))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "", "unit to list when the target has several")
	cmd.Flags().IntVar(&iterationCap, "cap", 0, "propagation step ceiling (0 = declarations squared)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the type table as JSON")
	return cmd
}
