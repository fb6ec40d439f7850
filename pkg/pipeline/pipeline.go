// Package pipeline provides the core solve pipeline for seamline.
//
// This package implements the complete parse → cost → solve flow used by
// the CLI. Centralizing it keeps argument validation, caching and timing
// consistent across commands.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read the instance text format into strips
//  2. Cost: derive the directed seam-cost matrix with its depot node
//  3. Solve: formulate the integer program and run branch-and-cut
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.ExecuteFile(ctx, "instance.txt", pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Order, result.Objective)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seamline/pkg/cache"
	"github.com/matzehuels/seamline/pkg/milp"
	"github.com/matzehuels/seamline/pkg/strip"
)

// DefaultMaxNodes bounds the branch-and-cut tree. The exact search is
// exponential in the worst case; the bound turns a runaway instance into a
// clean SOLVER_ERROR instead of an unbounded burn. Zero disables the bound.
const DefaultMaxNodes = 2_000_000

// Options contains all configuration for a solve run.
type Options struct {
	// Timeout aborts the solve after the given duration. Zero means no
	// limit; exactness is only guaranteed for runs that complete.
	Timeout time.Duration `json:"timeout,omitempty"`

	// MaxNodes bounds the number of explored subproblems.
	MaxNodes int `json:"max_nodes,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger     *log.Logger         `json:"-"`
	OnProgress func(milp.Progress) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults applies defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// keyOpts returns the cache key options for this configuration.
func (o *Options) keyOpts() cache.TourKeyOpts {
	return cache.TourKeyOpts{
		Timeout:  o.Timeout,
		MaxNodes: o.MaxNodes,
	}
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Strips    int
	ParseTime time.Duration
	BuildTime time.Duration
	SolveTime time.Duration
	Explored  int
	Pruned    int
	Cuts      int
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Order is the optimal 1-based strip sequence.
	Order []int

	// Objective is the total seam cost of Order.
	Objective int

	// InstanceHash is the content hash of the instance.
	InstanceHash string

	// Stats contains timing and search information.
	Stats Stats

	// CacheHit reports whether the tour came from cache.
	CacheHit bool
}

// cachedTour is the cache payload for a solved instance.
type cachedTour struct {
	Order     []int `json:"order"`
	Objective int   `json:"objective"`
}

// instanceHash computes the content hash used for cache keys. Strips are
// encoded canonically, so logically identical instances share a key
// regardless of input whitespace.
func instanceHash(inst *strip.Instance) string {
	type canonical struct {
		W, H   int
		Pixels [][]strip.Pixel
	}
	c := canonical{W: inst.Width, H: inst.Height, Pixels: make([][]strip.Pixel, len(inst.Strips))}
	for k, s := range inst.Strips {
		px := make([]strip.Pixel, 0, s.Width()*s.Height())
		for r := 0; r < s.Height(); r++ {
			for col := 0; col < s.Width(); col++ {
				px = append(px, s.At(r, col))
			}
		}
		c.Pixels[k] = px
	}
	data, _ := json.Marshal(c)
	return cache.Hash(data)
}
