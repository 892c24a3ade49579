package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"sbr-suite/internal/runner"
	"sbr-suite/pkg/loader"
	"sbr-suite/pkg/model"
	"sbr-suite/pkg/resolver"
)

func loadUnits(target string) ([]*model.Unit, error) {
	units, err := loader.LoadPath(target)
	if err != nil {
		return nil, fmt.Errorf("load units from %s: %w", target, err)
	}
	return units, nil
}

// resolveTarget loads the unit documents at target (a file or a directory)
// and resolves them all. Partial results are returned alongside the error so
// commands can report what did resolve.
func resolveTarget(ctx context.Context, target string, iterationCap int) ([]*resolver.Result, error) {
	units, err := loadUnits(target)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, units, runner.Options{
		Resolve: resolver.Options{IterationCap: iterationCap},
	})
}

func emitJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func findResult(results []*resolver.Result, unit string) (*resolver.Result, error) {
	if unit == "" {
		if len(results) == 1 {
			if results[0] == nil {
				return nil, fmt.Errorf("the unit failed to resolve")
			}
			return results[0], nil
		}
		return nil, fmt.Errorf("target has %d units; pick one with --unit", len(results))
	}
	for _, r := range results {
		if r != nil && r.Unit == unit {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no unit named %q", unit)
}

func typeLabel(td resolver.TypeDescriptor) string {
	switch td.State {
	case resolver.StateConcrete:
		return td.Name
	case resolver.StateInferred:
		return fmt.Sprintf("%s (inferred from %s)", td.Name, td.From)
	case resolver.StateOpaque:
		return "opaque"
	default:
		return "unresolved"
	}
}

func summarize(r *resolver.Result) string {
	if r == nil {
		return "unit=? (no result)"
	}

	counts := map[resolver.TypeState]int{}
	for _, td := range r.Types {
		counts[td.State]++
	}
	return fmt.Sprintf(
		"unit=%s decls=%d bindings=%d concrete=%d inferred=%d opaque=%d unresolved=%d diagnostics=%d",
		r.Unit,
		len(r.Declarations()),
		len(r.Bindings),
		counts[resolver.StateConcrete],
		counts[resolver.StateInferred],
		counts[resolver.StateOpaque],
		counts[resolver.StateUnresolved],
		len(r.Diagnostics),
	)
}
