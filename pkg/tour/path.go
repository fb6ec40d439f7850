package tour

import (
	"github.com/matzehuels/seamline/pkg/errors"
	"github.com/matzehuels/seamline/pkg/milp"
)

// Reconstruct converts the solved optimal assignment into the ordered
// sequence of real node indices. It walks from the depot along chosen
// edges until returning to it; the depot itself is excluded from the
// output.
//
// For any solution the engine reports optimal the result is a permutation
// of 1..n. A violation means the assignment slipped past subtour
// elimination and is reported as an internal error.
func (f *Formulation) Reconstruct(sol *milp.Solution) ([]int, error) {
	n := f.dim - 1
	order := make([]int, 0, n)
	seen := make([]bool, f.dim)

	node := f.successor(sol, 0)
	for node > 0 {
		if seen[node] {
			return nil, errors.New(errors.ErrCodeInternal,
				"solution revisits node %d before closing at the depot", node)
		}
		seen[node] = true
		order = append(order, node)
		node = f.successor(sol, node)
	}
	if node < 0 {
		return nil, errors.New(errors.ErrCodeInternal,
			"solution path breaks off before returning to the depot")
	}
	if len(order) != n {
		return nil, errors.New(errors.ErrCodeInternal,
			"solution path covers %d of %d strips", len(order), n)
	}

	return order, nil
}
