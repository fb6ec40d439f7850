package tour

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/matzehuels/seamline/pkg/milp"
	"github.com/matzehuels/seamline/pkg/strip"
)

func solveOrdering(t *testing.T, costs strip.CostMatrix) ([]int, float64) {
	t.Helper()

	m := milp.NewModel("test")
	f, err := Formulate(m, costs)
	if err != nil {
		t.Fatalf("Formulate() error = %v", err)
	}

	sol, err := m.Optimize(context.Background(), milp.Options{})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	order, err := f.Reconstruct(sol)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	return order, sol.Objective()
}

func TestSolveTwoStrips(t *testing.T) {
	a, err := strip.NewStrip(2, 1, []strip.Pixel{{R: 0, G: 0, B: 0}, {R: 10, G: 10, B: 10}})
	if err != nil {
		t.Fatalf("NewStrip() error = %v", err)
	}
	b, err := strip.NewStrip(2, 1, []strip.Pixel{{R: 50, G: 50, B: 50}, {R: 5, G: 5, B: 5}})
	if err != nil {
		t.Fatalf("NewStrip() error = %v", err)
	}

	costs := buildMatrix(t, []strip.Strip{a, b})
	order, objective := solveOrdering(t, costs)

	// Placing b before a costs 15 against 120 the other way around.
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("order = %v, want [2 1]", order)
	}
	if math.Abs(objective-15) > 1e-6 {
		t.Errorf("objective = %v, want 15", objective)
	}
}

func TestSolveSingleStrip(t *testing.T) {
	costs := buildMatrix(t, makeStrips(t, 42))
	order, objective := solveOrdering(t, costs)

	if len(order) != 1 || order[0] != 1 {
		t.Errorf("order = %v, want [1]", order)
	}
	if math.Abs(objective) > 1e-6 {
		t.Errorf("objective = %v, want 0 (depot hops are free)", objective)
	}
}

func TestSolveIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	const n = 5
	strips := make([]strip.Strip, n)
	for k := range strips {
		pixels := make([]strip.Pixel, 2)
		for i := range pixels {
			pixels[i] = strip.Pixel{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
			}
		}
		s, err := strip.NewStrip(2, 1, pixels)
		if err != nil {
			t.Fatalf("NewStrip() error = %v", err)
		}
		strips[k] = s
	}

	costs := buildMatrix(t, strips)
	order, objective := solveOrdering(t, costs)

	if len(order) != n {
		t.Fatalf("len(order) = %d, want %d", len(order), n)
	}
	seen := make([]bool, n+1)
	for _, v := range order {
		if v < 1 || v > n {
			t.Fatalf("order contains %d, want values in 1..%d", v, n)
		}
		if seen[v] {
			t.Fatalf("order repeats %d: %v", v, order)
		}
		seen[v] = true
	}

	// The reported objective matches an independent recomputation along
	// the returned order.
	if recomputed := costs.TourCost(order); math.Abs(objective-float64(recomputed)) > 1e-6 {
		t.Errorf("objective = %v, independent recomputation = %d", objective, recomputed)
	}
}

func TestSolveIdempotent(t *testing.T) {
	costs := buildMatrix(t, makeStrips(t, 10, 200, 50, 130))

	_, obj1 := solveOrdering(t, costs)
	_, obj2 := solveOrdering(t, costs)

	if math.Abs(obj1-obj2) > 1e-9 {
		t.Errorf("objectives differ between runs: %v vs %v", obj1, obj2)
	}
}

func TestSolveAvoidsGreedyTrap(t *testing.T) {
	// Strips engineered so the optimal order is the reverse of the
	// input: strip k's right edge matches strip k-1's left edge.
	edges := []struct{ left, right uint8 }{
		{200, 10},
		{100, 200},
		{50, 100},
	}
	strips := make([]strip.Strip, len(edges))
	for k, e := range edges {
		s, err := strip.NewStrip(2, 1, []strip.Pixel{
			{R: e.left, G: e.left, B: e.left},
			{R: e.right, G: e.right, B: e.right},
		})
		if err != nil {
			t.Fatalf("NewStrip() error = %v", err)
		}
		strips[k] = s
	}

	costs := buildMatrix(t, strips)
	order, objective := solveOrdering(t, costs)

	want := []int{3, 2, 1}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if math.Abs(objective) > 1e-6 {
		t.Errorf("objective = %v, want 0 (edges align exactly)", objective)
	}
}
