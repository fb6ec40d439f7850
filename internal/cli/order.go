package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seamline/pkg/pipeline"
	"github.com/matzehuels/seamline/pkg/strip"
)

// orderCommand creates the order command, the main entry point: parse an
// instance, solve it to optimality, emit the strip order.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		output   string
		timeout  time.Duration
		maxNodes int
		noCache  bool
		refresh  bool
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "order <instance.txt>",
		Short: "Solve an instance and emit the optimal strip order",
		Long: `Solve an instance and emit the optimal strip order.

The instance file starts with a header line "<n> <width> <height>",
followed by n lines of width*height*3 channel values in [0,255]
(row-major, R G B per pixel). The result is one line with the n strip
indices (1-based) in the order that minimizes total seam cost.

Solving is exact: the ordering is provably optimal, not a heuristic.
Solved instances are cached locally, so re-running on identical input
returns instantly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return fmt.Errorf("instance path must not be empty")
			}
			opts := pipeline.Options{
				Timeout:  timeout,
				MaxNodes: maxNodes,
				Refresh:  refresh,
			}
			c.applyConfigDefaults(cmd, &opts, &noCache)
			return c.runOrder(cmd.Context(), args[0], output, opts, noCache, watch)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the order to this file instead of stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the solve after this duration (0 = no limit)")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "abort after exploring this many subproblems (0 = default limit)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&watch, "watch", false, "show live search progress while solving")

	return cmd
}

// applyConfigDefaults fills unset flags from the config file.
func (c *CLI) applyConfigDefaults(cmd *cobra.Command, opts *pipeline.Options, noCache *bool) {
	if !cmd.Flags().Changed("timeout") && c.Config.Timeout.Duration > 0 {
		opts.Timeout = c.Config.Timeout.Duration
	}
	if !cmd.Flags().Changed("max-nodes") && c.Config.MaxNodes > 0 {
		opts.MaxNodes = c.Config.MaxNodes
	}
	if !cmd.Flags().Changed("no-cache") && c.Config.NoCache {
		*noCache = true
	}
}

// runOrder executes the pipeline and writes the result.
func (c *CLI) runOrder(ctx context.Context, input, output string, opts pipeline.Options, noCache, watch bool) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)

	var result *pipeline.Result
	if watch {
		result, err = c.runOrderWatched(ctx, runner, input, opts)
	} else {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", input))
		spinner.Start()
		result, err = runner.ExecuteFile(ctx, input, opts)
		if err != nil {
			spinner.StopWithError("Solve failed")
			return err
		}
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if output == "" {
		if err := strip.WriteOrder(os.Stdout, result.Order); err != nil {
			return err
		}
	} else {
		if err := strip.WriteOrderFile(output, result.Order); err != nil {
			return err
		}
		printSuccess("Wrote %s", output)
	}

	prog.done(fmt.Sprintf("Ordered %d strips, total seam cost %d", result.Stats.Strips, result.Objective))
	if result.CacheHit {
		printDetail("result served from cache; use --refresh to recompute")
	} else {
		printDetail("explored %d subproblems, %d pruned, %d cuts",
			result.Stats.Explored, result.Stats.Pruned, result.Stats.Cuts)
	}
	return nil
}
