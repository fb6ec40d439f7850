package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seamline/pkg/pipeline"
	"github.com/matzehuels/seamline/pkg/render"
	"github.com/matzehuels/seamline/pkg/strip"
)

// visualizeCommand creates the visualize command: solve an instance (or
// reuse its cached tour) and render the optimal ordering as a graph.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		format    string
		output    string
		timeout   time.Duration
		noCache   bool
		showDepot bool
	)

	cmd := &cobra.Command{
		Use:   "visualize <instance.txt>",
		Short: "Render the optimal ordering as SVG, PNG, or DOT",
		Long: `Render the optimal ordering as SVG, PNG, or DOT.

The instance is solved first (cached results are reused), then the tour
is drawn left to right with each transition labeled by its seam cost.
With --depot the synthetic zero-cost depot node is included, showing the
closed-cycle formulation behind the solve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			opts := pipeline.Options{Timeout: timeout}
			c.applyConfigDefaults(cmd, &opts, &noCache)
			if !cmd.Flags().Changed("depot") && c.Config.ShowDepot {
				showDepot = true
			}
			return c.runVisualize(cmd.Context(), args[0], output, format, showDepot, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <instance>.<format>)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the solve after this duration (0 = no limit)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&showDepot, "depot", false, "include the synthetic depot node")

	return cmd
}

func validateFormat(format string) error {
	switch format {
	case "svg", "png", "dot":
		return nil
	}
	return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot)", format)
}

// runVisualize solves the instance and renders the tour.
func (c *CLI) runVisualize(ctx context.Context, input, output, format string, showDepot bool, opts pipeline.Options, noCache bool) error {
	opts.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	inst, err := strip.ReadInstanceFile(input)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", input))
	spinner.Start()
	result, err := runner.Execute(ctx, inst, opts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}

	// Rendering needs edge costs, which the cached tour omits.
	costs, err := strip.BuildCostMatrix(inst.Strips)
	if err != nil {
		spinner.Stop()
		return err
	}

	dot := render.ToDOT(result.Order, costs, render.Options{ShowDepot: showDepot})

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.RenderSVG(dot)
	case "png":
		data, err = render.RenderPNG(dot)
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", format, err)
	}
	spinner.Stop()

	if output == "" {
		output = defaultVizPath(input, format)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Wrote %s", output)
	printDetail("objective %d over %d strips", result.Objective, result.Stats.Strips)
	return nil
}

// defaultVizPath derives the output path from the instance path.
func defaultVizPath(input, format string) string {
	base := strings.TrimSuffix(input, ".txt")
	return base + "." + format
}
