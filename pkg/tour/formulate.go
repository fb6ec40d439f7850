package tour

import (
	"fmt"

	"github.com/matzehuels/seamline/pkg/errors"
	"github.com/matzehuels/seamline/pkg/milp"
	"github.com/matzehuels/seamline/pkg/strip"
)

// Formulation binds a cost matrix to the decision variables registered on
// a model. It implements milp.LazyChecker for subtour elimination and
// reconstructs the ordering from the solved assignment.
type Formulation struct {
	dim  int
	vars [][]milp.VarID // vars[i][j] for i != j; diagonal unused
}

// Formulate registers variables, objective and degree constraints for the
// given cost matrix on m, enables lazy subtour elimination, and returns
// the formulation.
//
// The matrix must be square with non-negative entries; violations yield a
// FORMULATION_ERROR. Degree constraints cover the depot through the same
// enter-once/leave-once loop as every real node; no redundant depot rows
// are emitted.
func Formulate(m *milp.Model, costs strip.CostMatrix) (*Formulation, error) {
	dim := costs.Dim()
	if dim < 2 {
		return nil, errors.New(errors.ErrCodeFormulation,
			"cost matrix spans %d nodes, need a depot plus at least one strip", dim)
	}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if costs.Cost(i, j) < 0 {
				return nil, errors.New(errors.ErrCodeFormulation,
					"cost[%d][%d] = %d is negative", i, j, costs.Cost(i, j))
			}
		}
	}

	f := &Formulation{dim: dim, vars: make([][]milp.VarID, dim)}

	// One binary per directed pair, with the transition cost as its
	// objective coefficient.
	objective := make([]milp.Term, 0, dim*(dim-1))
	for i := 0; i < dim; i++ {
		f.vars[i] = make([]milp.VarID, dim)
		for j := 0; j < dim; j++ {
			if i == j {
				continue
			}
			v := m.AddBinary(fmt.Sprintf("x_%d_%d", i, j))
			f.vars[i][j] = v
			objective = append(objective, milp.Term{Var: v, Coeff: float64(costs.Cost(i, j))})
		}
	}
	if err := m.SetObjective(objective); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormulation, err, "set objective")
	}

	// Leave-once and enter-once for every node, depot included.
	for k := 0; k < dim; k++ {
		leave := make([]milp.Term, 0, dim-1)
		enter := make([]milp.Term, 0, dim-1)
		for j := 0; j < dim; j++ {
			if j == k {
				continue
			}
			leave = append(leave, milp.Term{Var: f.vars[k][j], Coeff: 1})
			enter = append(enter, milp.Term{Var: f.vars[j][k], Coeff: 1})
		}
		if err := m.AddConstraint(milp.Constraint{
			Name: fmt.Sprintf("leave_%d", k), Terms: leave, Sense: milp.Equal, RHS: 1,
		}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFormulation, err, "leave-once for node %d", k)
		}
		if err := m.AddConstraint(milp.Constraint{
			Name: fmt.Sprintf("enter_%d", k), Terms: enter, Sense: milp.Equal, RHS: 1,
		}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFormulation, err, "enter-once for node %d", k)
		}
	}

	m.SetLazyChecker(f)
	return f, nil
}

// Var returns the decision variable for the directed edge i -> j.
// It panics on the diagonal, which has no variable.
func (f *Formulation) Var(i, j int) milp.VarID {
	if i == j {
		panic("tour: no variable for self-edge")
	}
	return f.vars[i][j]
}

// Dim returns the node count including the depot.
func (f *Formulation) Dim() int { return f.dim }
