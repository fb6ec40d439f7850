package strip

import (
	"github.com/matzehuels/seamline/pkg/errors"
)

// CostMatrix is the directed seam-cost matrix over n strips plus a
// synthetic depot at index 0. The depot has zero cost to and from every
// real node, which turns the open-path ordering problem into a
// closed-cycle formulation. Values are fixed at construction and never
// mutated afterwards.
type CostMatrix struct {
	dim  int
	cost [][]int
}

// Dim returns the matrix dimension, n+1 (depot included).
func (m CostMatrix) Dim() int { return m.dim }

// N returns the number of real strips, dim-1.
func (m CostMatrix) N() int { return m.dim - 1 }

// Cost returns the directed transition cost from node i to node j.
// Indices 1..n address strips; 0 is the depot.
func (m CostMatrix) Cost(i, j int) int { return m.cost[i][j] }

// BuildCostMatrix derives the (n+1)x(n+1) cost matrix for the given
// strips. Strip k becomes node k+1; node 0 is the zero-cost depot.
//
// All strips must share the dimensions of the first one; a mismatch or an
// empty input yields an INVALID_INPUT error.
func BuildCostMatrix(strips []Strip) (CostMatrix, error) {
	n := len(strips)
	if n < 1 {
		return CostMatrix{}, errors.New(errors.ErrCodeInvalidInput,
			"need at least one strip, got %d", n)
	}

	w, h := strips[0].Width(), strips[0].Height()
	if w < 1 || h < 1 {
		return CostMatrix{}, errors.New(errors.ErrCodeInvalidInput,
			"strip 1 is empty (%dx%d)", w, h)
	}
	for k, s := range strips {
		if s.Width() != w || s.Height() != h {
			return CostMatrix{}, errors.New(errors.ErrCodeInvalidInput,
				"strip %d is %dx%d, want %dx%d like strip 1", k+1, s.Width(), s.Height(), w, h)
		}
	}

	dim := n + 1
	cost := make([][]int, dim)
	for i := range cost {
		cost[i] = make([]int, dim)
	}
	// Depot row and column stay zero.
	for i := 1; i < dim; i++ {
		for j := 1; j < dim; j++ {
			if i == j {
				continue
			}
			cost[i][j] = seam(strips[i-1], strips[j-1])
		}
	}

	return CostMatrix{dim: dim, cost: cost}, nil
}

// TourCost recomputes the total cost of visiting the given 1-based strip
// order, including the zero-cost depot hops at both ends. It exists so
// callers can verify a solver objective independently.
func (m CostMatrix) TourCost(order []int) int {
	total := 0
	prev := 0
	for _, node := range order {
		total += m.cost[prev][node]
		prev = node
	}
	total += m.cost[prev][0]
	return total
}
