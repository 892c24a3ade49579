package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBindingsCmd() *cobra.Command {
	var unit string
	var name string
	var iterationCap int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "bindings [path]",
		Short: "List occurrence-to-declaration bindings with resolution paths",
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
				return emitJSON(r.Bindings)
			}

			for _, occ := range r.Occurrences() {
				if name != "" && occ.Name != name {
					continue
				}
				b, bound := r.Bindings[occ.Node]
				if !bound {
					fmt.Printf("%s %q (%s) -> unresolved\n", occ.Node, occ.Name, occ.Context)
					continue
				}
				d := r.Decl(b.Decl)
				fmt.Printf("%s %q (%s) -> %s %s path=%v\n", occ.Node, occ.Name, occ.Context, d.Kind, b.Decl, b.Path)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "", "unit to list when the target has several")
	cmd.Flags().StringVar(&name, "name", "", "only show occurrences of this spelling")
	cmd.Flags().IntVar(&iterationCap, "cap", 0, "propagation step ceiling (0 = declarations squared)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the binding table as JSON")
	return cmd
}
