// Package milp provides a small integer linear programming facility:
// an append-only model of binary variables and linear constraints, and an
// exact branch-and-cut engine that solves it.
//
// The model API is the abstract solver contract the ordering core programs
// against: create binary variables, add equality/inequality constraints,
// set a minimization objective, register a lazy-constraint checker, run
// the optimization, read back the optimal assignment. The bundled engine
// solves LP relaxations with gonum's simplex and explores the integer
// search tree by branching on fractional variables; any engine honoring
// the same contract could be substituted.
//
// # Lazy constraints
//
// A [LazyChecker] is invoked on every new integer-feasible candidate the
// search finds. It reads candidate values and may return violated
// constraints ("cuts"). Cuts enter a global pool applied to every LP solved
// afterwards, and the candidate's node is re-solved, so a cut candidate is
// never accepted. Checker invocations are serialized by the engine; the
// checker must not retain candidate references across invocations.
package milp

import (
	"errors"
	"fmt"
	"time"
)

// VarID identifies a decision variable within its model.
type VarID int

// Sense distinguishes constraint relations.
type Sense int

const (
	// Equal is a linear equality: terms == rhs.
	Equal Sense = iota
	// LessEq is a linear inequality: terms <= rhs.
	LessEq
)

// Term is one weighted variable in a linear expression.
type Term struct {
	Var   VarID
	Coeff float64
}

// Constraint is a linear constraint over a weighted sum of variables.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Candidate gives read-only access to an integer-feasible assignment
// inside a lazy-checker invocation. Values are rounded to exact integers.
type Candidate interface {
	Value(v VarID) float64
}

// LazyChecker inspects an integer-feasible candidate and returns violated
// constraints to add for the remainder of the search. Returning nil accepts
// the candidate.
type LazyChecker interface {
	Check(c Candidate) []Constraint
}

// Progress reports search state to an optional observer: nodes explored,
// branches pruned, cuts in the pool, and the incumbent objective (valid
// only when HasIncumbent).
type Progress struct {
	Explored     int
	Pruned       int
	Cuts         int
	Incumbent    float64
	HasIncumbent bool
}

// Options configures a single Optimize run. The core treats these as
// opaque engine configuration.
type Options struct {
	// Timeout aborts the search after the given duration. Zero means
	// no limit.
	Timeout time.Duration

	// MaxNodes aborts the search after exploring this many subproblems.
	// Zero means no limit.
	MaxNodes int

	// OnProgress, if set, is called after every explored node.
	OnProgress func(Progress)
}

// Sentinel errors reported by Optimize.
var (
	// ErrInfeasible means the initial LP relaxation has no solution.
	ErrInfeasible = errors.New("problem is infeasible")

	// ErrUnbounded means the relaxation has no finite optimum.
	ErrUnbounded = errors.New("problem is unbounded")

	// ErrNoIntegerSolution means the search exhausted the tree without
	// finding an integer-feasible assignment.
	ErrNoIntegerSolution = errors.New("no integer feasible solution")

	// ErrNodeLimit means MaxNodes was reached before proving optimality.
	ErrNodeLimit = errors.New("node limit reached")

	// ErrFrozen is returned when the model is modified after Optimize
	// started. Lazy cuts are the only legal post-freeze additions.
	ErrFrozen = errors.New("model is frozen")
)

// Model is an append-only collection of binary variables, constraints and
// a minimization objective. It freezes when Optimize begins; afterwards
// only the engine's cut pool grows.
type Model struct {
	name        string
	varNames    []string
	constraints []Constraint
	objective   []Term
	checker     LazyChecker
	frozen      bool
}

// NewModel creates an empty model. The name appears in solver logs only.
func NewModel(name string) *Model {
	return &Model{name: name}
}

// AddBinary creates a binary decision variable and returns its ID.
// An empty name is replaced with a positional one.
func (m *Model) AddBinary(name string) VarID {
	if name == "" {
		name = fmt.Sprintf("x%d", len(m.varNames))
	}
	m.varNames = append(m.varNames, name)
	return VarID(len(m.varNames) - 1)
}

// NumVars returns the number of variables created so far.
func (m *Model) NumVars() int { return len(m.varNames) }

// NumConstraints returns the number of constraints added so far,
// excluding lazy cuts.
func (m *Model) NumConstraints() int { return len(m.constraints) }

// AddConstraint appends a constraint. It fails once the model is frozen.
func (m *Model) AddConstraint(c Constraint) error {
	if m.frozen {
		return ErrFrozen
	}
	if err := m.checkTerms(c.Terms); err != nil {
		return err
	}
	m.constraints = append(m.constraints, c)
	return nil
}

// SetObjective sets the linear minimization objective.
func (m *Model) SetObjective(terms []Term) error {
	if m.frozen {
		return ErrFrozen
	}
	if err := m.checkTerms(terms); err != nil {
		return err
	}
	m.objective = terms
	return nil
}

// SetLazyChecker enables lazy-constraint mode with the given checker.
func (m *Model) SetLazyChecker(ch LazyChecker) {
	m.checker = ch
}

func (m *Model) checkTerms(terms []Term) error {
	for _, t := range terms {
		if t.Var < 0 || int(t.Var) >= len(m.varNames) {
			return fmt.Errorf("unknown variable id %d", t.Var)
		}
	}
	return nil
}

// Solution is the optimal assignment found by Optimize.
type Solution struct {
	objective float64
	values    []float64
}

// Objective returns the optimal objective value.
func (s *Solution) Objective() float64 { return s.objective }

// Value returns the optimal value of v, rounded to an exact integer.
func (s *Solution) Value(v VarID) float64 { return s.values[v] }

// Ensure Solution satisfies the candidate read contract, so callers can
// reuse checker logic against final solutions.
var _ Candidate = (*Solution)(nil)
