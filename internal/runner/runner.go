// Package runner resolves independent translation units concurrently. Each
// unit owns its own scope, binding, and type tables, so the fan-out is a
// plain parallel map with no shared mutable state and no locking.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"sbr-suite/pkg/model"
	"sbr-suite/pkg/resolver"
)

// Options tunes a runner pass.
type Options struct {
	Resolve     resolver.Options
	Concurrency int
	Logger      *slog.Logger
}

// Run resolves every unit, at most Concurrency at a time, and returns the
// results in input order. A unit that aborts on its iteration cap still
// contributes its partial result; Run reports the joined per-unit errors
// after all units have finished.
func Run(ctx context.Context, units []*model.Unit, opts Options) ([]*resolver.Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]*resolver.Result, len(units))
	unitErrs := make([]error, len(units))

	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			res, err := resolver.Resolve(unit, opts.Resolve)
			results[i] = res
			unitErrs[i] = err

			if err != nil {
				logger.Error("unit resolution aborted",
					slog.String("unit", unit.Name),
					slog.String("error", err.Error()),
				)
				return nil
			}
			logger.Debug("unit resolved",
				slog.String("unit", unit.Name),
				slog.Int("declarations", len(res.Declarations())),
				slog.Int("bindings", len(res.Bindings)),
				slog.Int("diagnostics", len(res.Diagnostics)),
				slog.Duration("elapsed", time.Since(start)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(unitErrs...)
}
