package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seamline/pkg/cache"
	"github.com/matzehuels/seamline/pkg/errors"
	"github.com/matzehuels/seamline/pkg/milp"
	"github.com/matzehuels/seamline/pkg/strip"
	"github.com/matzehuels/seamline/pkg/tour"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ExecuteFile runs the complete parse → cost → solve pipeline on the
// instance at path.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	parseStart := time.Now()
	inst, err := strip.ReadInstanceFile(path)
	if err != nil {
		return nil, err
	}
	result, err := r.Execute(ctx, inst, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = time.Since(parseStart) - result.Stats.BuildTime - result.Stats.SolveTime
	return result, nil
}

// Execute runs the cost and solve stages on an already parsed instance,
// with tour-level caching.
func (r *Runner) Execute(ctx context.Context, inst *strip.Instance, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{InstanceHash: instanceHash(inst)}
	result.Stats.Strips = len(inst.Strips)

	cacheKey := r.Keyer.TourKey(result.InstanceHash, opts.keyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedTour
			if err := json.Unmarshal(data, &cached); err == nil {
				result.Order = cached.Order
				result.Objective = cached.Objective
				result.CacheHit = true
				opts.Logger.Info("tour from cache",
					"strips", result.Stats.Strips,
					"objective", result.Objective)
				return result, nil
			}
			// Corrupt entry: fall through and recompute.
		}
	}

	buildStart := time.Now()
	costs, err := strip.BuildCostMatrix(inst.Strips)
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = time.Since(buildStart)
	opts.Logger.Info("built cost matrix",
		"strips", result.Stats.Strips,
		"duration", result.Stats.BuildTime)

	solveStart := time.Now()
	order, objective, searchStats, err := r.Solve(ctx, costs, opts)
	if err != nil {
		return nil, err
	}
	result.Order = order
	result.Objective = objective
	result.Stats.Explored = searchStats.Explored
	result.Stats.Pruned = searchStats.Pruned
	result.Stats.Cuts = searchStats.Cuts
	result.Stats.SolveTime = time.Since(solveStart)
	opts.Logger.Info("solved ordering",
		"objective", objective,
		"explored", searchStats.Explored,
		"cuts", searchStats.Cuts,
		"duration", result.Stats.SolveTime)

	if data, err := json.Marshal(cachedTour{Order: order, Objective: objective}); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLTour)
	}

	return result, nil
}

// Solve formulates the integer program for the cost matrix and runs the
// branch-and-cut search to optimality. It is the uncached core of the
// pipeline.
func (r *Runner) Solve(ctx context.Context, costs strip.CostMatrix, opts Options) (order []int, objective int, stats milp.Progress, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, 0, stats, err
	}

	model := milp.NewModel("seam-ordering")
	f, err := tour.Formulate(model, costs)
	if err != nil {
		return nil, 0, stats, err
	}
	opts.Logger.Debug("formulated model",
		"vars", model.NumVars(),
		"constraints", model.NumConstraints())

	var last milp.Progress
	engineOpts := milp.Options{
		Timeout:  opts.Timeout,
		MaxNodes: opts.MaxNodes,
		OnProgress: func(p milp.Progress) {
			last = p
			if opts.OnProgress != nil {
				opts.OnProgress(p)
			}
		},
	}

	sol, err := model.Optimize(ctx, engineOpts)
	if err != nil {
		return nil, 0, last, errors.Wrap(errors.ErrCodeSolver, err, "optimize ordering over %d strips", costs.N())
	}

	order, err = f.Reconstruct(sol)
	if err != nil {
		return nil, 0, last, err
	}

	// The engine's objective and an independent recomputation over the
	// cost matrix must agree exactly; a mismatch means a broken cut or a
	// misread assignment.
	objective = int(math.Round(sol.Objective()))
	if recomputed := costs.TourCost(order); recomputed != objective {
		return nil, 0, last, errors.New(errors.ErrCodeInternal,
			"objective %d does not match recomputed tour cost %d", objective, recomputed)
	}

	return order, objective, last, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
