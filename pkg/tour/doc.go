// Package tour formulates the strip-ordering problem as an integer linear
// program and turns the solved assignment back into an ordering.
//
// # Formulation
//
// The directed cost matrix (see strip.BuildCostMatrix) spans the n real
// nodes plus a zero-cost depot, node 0. One binary variable x[i][j] exists
// per ordered pair i != j; the objective minimizes the total transition
// cost. Degree constraints require every node to be left exactly once and
// entered exactly once. Those constraints alone admit disjoint unions of
// cycles, so the formulation is completed lazily: whenever the engine
// finds an integer-feasible candidate, [Formulation.Check] traces the
// cycle through the depot and, if it spans fewer than n+1 nodes, submits
// one cut forbidding that exact edge set.
//
// Only the depot's cycle component is cut per candidate. Disjoint cycles
// elsewhere in the same candidate survive the round; the exhaustive
// branch-and-bound search surfaces them in later incumbents, where they
// are cut in turn. Eliminating every component at once would converge in
// fewer rounds but is deliberately not done, keeping the checker's
// contract at exactly one cut per rejected candidate.
//
// A closed cycle through the free depot edges is always feasible for
// n >= 1, so a solver failure on a valid matrix indicates an engine
// problem rather than an unsolvable instance.
package tour
