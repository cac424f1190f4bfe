// Package sweep runs one diffusion engine per parameter value concurrently.
// Every engine is confined to its own goroutine.
package sweep

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/metrics"
)

type Result struct {
	Alpha     float64
	Stability heat.StabilityReport
	Final     heat.Field
	Metrics   map[string]float64
}

// Runner sweeps diffusivity over a base configuration.
type Runner struct {
	base    heat.Config
	initial heat.Field
	workers int
	opts    []heat.Option
}

// NewRunner returns a runner that starts at most workers engines at once.
// workers <= 0 means no limit. opts are applied to every engine, so any
// logger or observer passed in must be safe for concurrent use.
func NewRunner(base heat.Config, initial heat.Field, workers int, opts ...heat.Option) *Runner {
	return &Runner{base: base, initial: initial.Clone(), workers: workers, opts: opts}
}

// Alphas runs one engine per diffusivity and returns results in input order.
func (r *Runner) Alphas(ctx context.Context, alphas []float64) ([]Result, error) {
	results := make([]Result, len(alphas))

	g, ctx := errgroup.WithContext(ctx)
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}

	for i, alpha := range alphas {
		g.Go(func() error {
			cfg := r.base
			cfg.Alpha = alpha

			set := metrics.Default()
			opts := append([]heat.Option{heat.WithObserver(set)}, r.opts...)
			e, err := heat.New(cfg, r.initial, opts...)
			if err != nil {
				return fmt.Errorf("alpha %g: %w", alpha, err)
			}
			if err := e.RunContext(ctx); err != nil {
				return fmt.Errorf("alpha %g: %w", alpha, err)
			}

			results[i] = Result{
				Alpha:     alpha,
				Stability: e.Stability(),
				Final:     e.Field(),
				Metrics:   set.Values(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
