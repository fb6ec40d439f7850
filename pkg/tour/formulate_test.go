package tour

import (
	"testing"

	"github.com/matzehuels/seamline/pkg/errors"
	"github.com/matzehuels/seamline/pkg/milp"
	"github.com/matzehuels/seamline/pkg/strip"
)

func buildMatrix(t *testing.T, strips []strip.Strip) strip.CostMatrix {
	t.Helper()
	m, err := strip.BuildCostMatrix(strips)
	if err != nil {
		t.Fatalf("BuildCostMatrix() error = %v", err)
	}
	return m
}

func makeStrips(t *testing.T, rights ...uint8) []strip.Strip {
	t.Helper()
	strips := make([]strip.Strip, len(rights))
	for k, r := range rights {
		s, err := strip.NewStrip(2, 1, []strip.Pixel{{R: r / 2}, {R: r}})
		if err != nil {
			t.Fatalf("NewStrip() error = %v", err)
		}
		strips[k] = s
	}
	return strips
}

func TestFormulate(t *testing.T) {
	costs := buildMatrix(t, makeStrips(t, 10, 50, 200))
	m := milp.NewModel("test")

	f, err := Formulate(m, costs)
	if err != nil {
		t.Fatalf("Formulate() error = %v", err)
	}

	dim := costs.Dim() // 4: depot plus 3 strips
	if f.Dim() != dim {
		t.Errorf("Dim() = %d, want %d", f.Dim(), dim)
	}

	// One binary per ordered pair of distinct nodes.
	if want := dim * (dim - 1); m.NumVars() != want {
		t.Errorf("NumVars() = %d, want %d", m.NumVars(), want)
	}

	// Leave-once and enter-once per node, depot included, nothing else.
	if want := 2 * dim; m.NumConstraints() != want {
		t.Errorf("NumConstraints() = %d, want %d", m.NumConstraints(), want)
	}
}

func TestFormulateTooSmall(t *testing.T) {
	m := milp.NewModel("test")

	_, err := Formulate(m, strip.CostMatrix{})
	if err == nil {
		t.Fatal("Formulate() error = nil, want error for empty matrix")
	}
	if !errors.Is(err, errors.ErrCodeFormulation) {
		t.Errorf("error code = %v, want FORMULATION_ERROR", errors.GetCode(err))
	}
}

func TestVarDistinctPerEdge(t *testing.T) {
	costs := buildMatrix(t, makeStrips(t, 10, 50))
	m := milp.NewModel("test")

	f, err := Formulate(m, costs)
	if err != nil {
		t.Fatalf("Formulate() error = %v", err)
	}

	seen := make(map[milp.VarID]bool)
	for i := 0; i < f.Dim(); i++ {
		for j := 0; j < f.Dim(); j++ {
			if i == j {
				continue
			}
			v := f.Var(i, j)
			if seen[v] {
				t.Errorf("Var(%d, %d) = %d reused by another edge", i, j, v)
			}
			seen[v] = true
		}
	}
}

func TestVarPanicsOnDiagonal(t *testing.T) {
	costs := buildMatrix(t, makeStrips(t, 10, 50))
	m := milp.NewModel("test")

	f, err := Formulate(m, costs)
	if err != nil {
		t.Fatalf("Formulate() error = %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Var(1, 1) did not panic")
		}
	}()
	f.Var(1, 1)
}
