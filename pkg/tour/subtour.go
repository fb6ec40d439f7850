package tour

import (
	"fmt"

	"github.com/matzehuels/seamline/pkg/milp"
)

// Check implements milp.LazyChecker. It traces the cycle through the depot
// in the candidate assignment: starting at node 0, it repeatedly follows
// the unique outgoing edge with value > 0.5 until a visited node recurs or
// every node is covered.
//
// A trace of n+1 edges is a complete tour and produces no cut. A shorter
// trace of k edges is a subtour containing the depot; Check returns exactly
// one cut summing those k edges with right-hand side k-1. The cut forbids
// recreating that edge set while excluding no complete tour, since a
// complete tour never selects all k edges of a proper subtour.
func (f *Formulation) Check(c milp.Candidate) []milp.Constraint {
	edges := f.traceDepotCycle(c)
	if len(edges) == f.dim {
		return nil // spans every node: a valid full ordering
	}

	terms := make([]milp.Term, len(edges))
	for i, e := range edges {
		terms[i] = milp.Term{Var: f.vars[e.from][e.to], Coeff: 1}
	}
	return []milp.Constraint{{
		Name:  fmt.Sprintf("subtour_%d", len(edges)),
		Terms: terms,
		Sense: milp.LessEq,
		RHS:   float64(len(edges) - 1),
	}}
}

type edge struct {
	from, to int
}

// traceDepotCycle walks the candidate's chosen edges from the depot until
// the cycle closes. Degree constraints guarantee exactly one outgoing edge
// per node in any integer-feasible candidate.
func (f *Formulation) traceDepotCycle(c milp.Candidate) []edge {
	visited := make([]bool, f.dim)
	edges := make([]edge, 0, f.dim)

	node := 0
	for !visited[node] {
		visited[node] = true
		next := f.successor(c, node)
		if next < 0 {
			// Degenerate candidate without an outgoing edge; nothing
			// sensible to cut.
			break
		}
		edges = append(edges, edge{from: node, to: next})
		node = next
	}
	return edges
}

// successor returns the target of node's chosen outgoing edge, or -1 if
// none is selected.
func (f *Formulation) successor(c milp.Candidate, node int) int {
	for j := 0; j < f.dim; j++ {
		if j == node {
			continue
		}
		if c.Value(f.vars[node][j]) > 0.5 {
			return j
		}
	}
	return -1
}
