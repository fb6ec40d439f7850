package milp

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// intTol is the distance from an integer within which a relaxation value
// counts as integral. Simplex results carry round-off, so exact comparison
// is too strict.
const intTol = 1e-6

// boundTol guards incumbent comparisons against round-off.
const boundTol = 1e-9

// pivotTol is the smallest pivot magnitude treated as nonzero when
// reducing the equality system.
const pivotTol = 1e-9

// row is one inequality sum(coeffs*x) <= rhs in dense form.
type row struct {
	coeffs []float64
	rhs    float64
}

// subProblem is one node of the search tree: the shared model plus the
// branch bounds accumulated on the path from the root. Pool cuts are not
// stored per node; they apply globally at solve time.
type subProblem struct {
	branches []row
}

// child returns a copy of the subproblem with one extra branch bound:
// factor*x[v] <= rhs. Branching a binary variable uses factor 1, rhs 0
// (fix to zero) or factor -1, rhs -1 (fix to one).
func (p subProblem) child(nv int, v VarID, factor, rhs float64) subProblem {
	coeffs := make([]float64, nv)
	coeffs[v] = factor
	branches := make([]row, len(p.branches), len(p.branches)+1)
	copy(branches, p.branches)
	return subProblem{branches: append(branches, row{coeffs: coeffs, rhs: rhs})}
}

// assignment is the rounded integer-feasible candidate handed to the
// lazy checker.
type assignment struct {
	values []float64
}

func (a assignment) Value(v VarID) float64 { return a.values[v] }

// engine holds the immutable LP data derived from a frozen model, plus the
// growing lazy-cut pool.
type engine struct {
	nv    int
	c     []float64
	eqA   []row // equalities, coeffs == rhs
	ineqA []row // inequalities incl. binary upper bounds
	cuts  []row // lazy cut pool, append-only
}

func newEngine(m *Model) (*engine, error) {
	nv := len(m.varNames)
	e := &engine{nv: nv, c: make([]float64, nv)}
	for _, t := range m.objective {
		e.c[t.Var] += t.Coeff
	}

	for _, con := range m.constraints {
		r, err := e.toRow(con)
		if err != nil {
			return nil, err
		}
		switch con.Sense {
		case Equal:
			e.eqA = append(e.eqA, r)
		case LessEq:
			e.ineqA = append(e.ineqA, r)
		default:
			return nil, fmt.Errorf("constraint %q: unknown sense %d", con.Name, con.Sense)
		}
	}

	// Binary upper bounds x <= 1. Lower bounds are implicit: the simplex
	// standard form requires x >= 0.
	for v := 0; v < nv; v++ {
		coeffs := make([]float64, nv)
		coeffs[v] = 1
		e.ineqA = append(e.ineqA, row{coeffs: coeffs, rhs: 1})
	}

	// The simplex rejects rank-deficient equality systems, and degree
	// constraints over a closed tour are always dependent (the leave rows
	// and the enter rows both sum to the edge total). Keep only a maximal
	// independent subset.
	reduced, err := reduceEqualities(e.eqA, nv)
	if err != nil {
		return nil, err
	}
	e.eqA = reduced

	return e, nil
}

// reduceEqualities runs Gaussian elimination with partial pivoting over the
// equality rows and returns an equivalent full-rank system. A dependent row
// whose right-hand side survives elimination makes the equalities
// inconsistent, which is reported as ErrInfeasible.
func reduceEqualities(rows []row, nv int) ([]row, error) {
	work := make([]row, len(rows))
	for i, r := range rows {
		coeffs := make([]float64, nv)
		copy(coeffs, r.coeffs)
		work[i] = row{coeffs: coeffs, rhs: r.rhs}
	}

	rank := 0
	for col := 0; col < nv && rank < len(work); col++ {
		pivot, best := -1, pivotTol
		for i := rank; i < len(work); i++ {
			if v := math.Abs(work[i].coeffs[col]); v > best {
				pivot, best = i, v
			}
		}
		if pivot < 0 {
			continue
		}
		work[rank], work[pivot] = work[pivot], work[rank]
		for i := rank + 1; i < len(work); i++ {
			factor := work[i].coeffs[col] / work[rank].coeffs[col]
			if factor == 0 {
				continue
			}
			for j := col; j < nv; j++ {
				work[i].coeffs[j] -= factor * work[rank].coeffs[j]
			}
			work[i].rhs -= factor * work[rank].rhs
		}
		rank++
	}

	for i := rank; i < len(work); i++ {
		if math.Abs(work[i].rhs) > pivotTol {
			return nil, ErrInfeasible
		}
	}
	return work[:rank], nil
}

func (e *engine) toRow(con Constraint) (row, error) {
	coeffs := make([]float64, e.nv)
	for _, t := range con.Terms {
		if t.Var < 0 || int(t.Var) >= e.nv {
			return row{}, fmt.Errorf("constraint %q: unknown variable id %d", con.Name, t.Var)
		}
		coeffs[t.Var] += t.Coeff
	}
	return row{coeffs: coeffs, rhs: con.RHS}, nil
}

// addCut converts a checker constraint into the pool. Cuts must be
// inequalities; an equality cut would over-constrain remaining candidates.
func (e *engine) addCut(con Constraint) error {
	if con.Sense != LessEq {
		return fmt.Errorf("lazy constraint %q: only <= cuts are supported", con.Name)
	}
	r, err := e.toRow(con)
	if err != nil {
		return err
	}
	e.cuts = append(e.cuts, r)
	return nil
}

// solveLP solves the subproblem's LP relaxation. Inequalities (base rows,
// pool cuts, branch bounds) are folded into standard form by adding one
// slack variable per row, then handed to gonum's simplex.
func (e *engine) solveLP(p subProblem) (z float64, x []float64, err error) {
	ineq := make([]row, 0, len(e.ineqA)+len(e.cuts)+len(p.branches))
	ineq = append(ineq, e.ineqA...)
	ineq = append(ineq, e.cuts...)
	ineq = append(ineq, p.branches...)

	nEq := len(e.eqA)
	nIneq := len(ineq)
	nTotal := e.nv + nIneq

	c := make([]float64, nTotal)
	copy(c, e.c)

	b := make([]float64, nEq+nIneq)
	a := mat.NewDense(nEq+nIneq, nTotal, nil)
	for i, r := range e.eqA {
		for j, v := range r.coeffs {
			a.Set(i, j, v)
		}
		b[i] = r.rhs
	}
	for i, r := range ineq {
		for j, v := range r.coeffs {
			a.Set(nEq+i, j, v)
		}
		a.Set(nEq+i, e.nv+i, 1) // slack
		b[nEq+i] = r.rhs
	}

	z, xAll, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		return 0, nil, err
	}
	return z, xAll[:e.nv], nil
}

// fractionalVar returns the index of the variable farthest from an
// integer (fraction closest to 1/2), or -1 if the assignment is integral.
func fractionalVar(x []float64) int {
	best := -1
	bestDist := intTol
	for i, v := range x {
		dist := math.Abs(v - math.Round(v))
		if dist > bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

func roundValues(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Round(v)
	}
	return out
}

func dot(c, x []float64) float64 {
	var sum float64
	for i := range c {
		sum += c[i] * x[i]
	}
	return sum
}

// Optimize runs the branch-and-cut search to completion and returns the
// optimal solution. The model freezes on entry; lazy cuts submitted by the
// registered checker are the only additions afterwards.
//
// The search explores subproblems depth-first. Each node's LP relaxation
// is a valid lower bound for its subtree even when later cuts are missing
// from it, so incumbent pruning stays exact as the pool grows.
func (m *Model) Optimize(ctx context.Context, opts Options) (*Solution, error) {
	m.frozen = true

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	e, err := newEngine(m)
	if err != nil {
		return nil, err
	}

	stack := []subProblem{{}}
	var incumbent *Solution
	var explored, pruned, cutCount int
	rootSolved := false

	report := func() {
		if opts.OnProgress == nil {
			return
		}
		p := Progress{Explored: explored, Pruned: pruned, Cuts: cutCount}
		if incumbent != nil {
			p.Incumbent = incumbent.objective
			p.HasIncumbent = true
		}
		opts.OnProgress(p)
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search aborted: %w", err)
		}
		if opts.MaxNodes > 0 && explored >= opts.MaxNodes {
			return nil, ErrNodeLimit
		}

		sub := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		explored++

		z, x, err := e.solveLP(sub)
		switch {
		case err == lp.ErrInfeasible:
			if !rootSolved && len(sub.branches) == 0 {
				return nil, ErrInfeasible
			}
			pruned++
			report()
			continue
		case err == lp.ErrUnbounded:
			return nil, ErrUnbounded
		case err != nil:
			return nil, fmt.Errorf("lp relaxation: %w", err)
		}
		rootSolved = true

		if incumbent != nil && z >= incumbent.objective-boundTol {
			pruned++
			report()
			continue
		}

		if branchOn := fractionalVar(x); branchOn >= 0 {
			// Fractional: branch to the x=0 and x=1 children. The x=1
			// child is pushed last so depth-first search commits edges
			// early and reaches integer candidates quickly.
			stack = append(stack,
				sub.child(e.nv, VarID(branchOn), 1, 0),
				sub.child(e.nv, VarID(branchOn), -1, -1))
			report()
			continue
		}

		cand := assignment{values: roundValues(x)}
		if m.checker != nil {
			if cuts := m.checker.Check(cand); len(cuts) > 0 {
				for _, cut := range cuts {
					if err := e.addCut(cut); err != nil {
						return nil, err
					}
				}
				cutCount += len(cuts)
				// The cut invalidates this candidate; re-solve the same
				// node against the grown pool.
				stack = append(stack, sub)
				report()
				continue
			}
		}

		incumbent = &Solution{objective: dot(e.c, cand.values), values: cand.values}
		report()
	}

	if incumbent == nil {
		return nil, ErrNoIntegerSolution
	}
	return incumbent, nil
}
