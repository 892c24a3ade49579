package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var iterationCap int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve [path]",
		Short: "Resolve unit documents and report binding and type tables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			results, err := resolveTarget(cmd.Context(), target, iterationCap)
			if jsonOutput && len(results) > 0 {
				if emitErr := emitJSON(results); emitErr != nil {
					return emitErr
				}
				return err
			}

			for _, r := range results {
				fmt.Println(summarize(r))
				if r == nil {
					continue
				}
				for _, d := range r.Diagnostics {
					fmt.Printf("  %s node=%s %s\n", d.Kind, d.Node, d.Detail)
				}
			}
			return err
		},
	}

	cmd.Flags().IntVar(&iterationCap, "cap", 0, "propagation step ceiling (0 = declarations squared)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit full results as JSON")
	return cmd
}
