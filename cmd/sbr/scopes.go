package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sbr-suite/pkg/resolver"
)

func newScopesCmd() *cobra.Command {
	var unit string
	var iterationCap int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scopes [path]",
		Short: "Print a unit's scope tree with its declarations",
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
				// A nil slot means the unit never resolved; the runner's
				// error names the cause.
				if err != nil {
					return err
				}
				return findErr
			}

			if jsonOutput {
				return emitJSON(r.Scopes)
			}
			printScope(r, r.Scopes.Root(), 0)
			return err
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "", "unit to print when the target has several")
	cmd.Flags().IntVar(&iterationCap, "cap", 0, "propagation step ceiling (0 = declarations squared)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the scope tree as JSON")
	return cmd
}

func printScope(r *resolver.Result, s *resolver.Scope, depth int) {
	if s == nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s#%d\n", indent, s.Kind, s.ID)
	for _, id := range s.Decls {
		d := r.Decl(id)
		if d == nil {
			continue
		}
		fmt.Printf("%s  %s %s: %s\n", indent, d.Kind, d.Name, typeLabel(r.Types[d.ID]))
	}
	for _, child := range r.Scopes.Scopes {
		if child.Parent == s.ID {
			printScope(r, child, depth+1)
		}
	}
}
