package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sbr-suite/pkg/resolver"
)

func newDiagCmd() *cobra.Command {
	var kind string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diag [path]",
		Short: "List resolution diagnostics across all units",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			results, err := resolveTarget(cmd.Context(), target, 0)
			if err != nil && len(results) == 0 {
				return err
			}

			type unitDiag struct {
				Unit string              `json:"unit"`
				Diag resolver.Diagnostic `json:"diagnostic"`
			}
			var all []unitDiag
			for _, r := range results {
				if r == nil {
					continue
				}
				for _, d := range r.Diagnostics {
					if kind != "" && string(d.Kind) != kind {
						continue
					}
					all = append(all, unitDiag{Unit: r.Unit, Diag: d})
				}
			}

			if jsonOutput {
				return emitJSON(all)
			}
			for _, ud := range all {
				fmt.Printf("%s %s node=%s %s\n", ud.Unit, ud.Diag.Kind, ud.Diag.Node, ud.Diag.Detail)
			}
			if len(all) == 0 {
				fmt.Println("no diagnostics")
			}
			return err
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind (unresolved_name, cycle_broken, iteration_cap_exceeded)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit diagnostics as JSON")
	return cmd
}
