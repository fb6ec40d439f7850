package tour_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/seamline/pkg/milp"
	"github.com/matzehuels/seamline/pkg/strip"
	"github.com/matzehuels/seamline/pkg/tour"
)

func ExampleFormulate() {
	// Two strips whose edges line up cheaply with b before a.
	a, _ := strip.NewStrip(2, 1, []strip.Pixel{{R: 0, G: 0, B: 0}, {R: 10, G: 10, B: 10}})
	b, _ := strip.NewStrip(2, 1, []strip.Pixel{{R: 50, G: 50, B: 50}, {R: 5, G: 5, B: 5}})
	costs, _ := strip.BuildCostMatrix([]strip.Strip{a, b})

	model := milp.NewModel("example")
	f, _ := tour.Formulate(model, costs)

	sol, _ := model.Optimize(context.Background(), milp.Options{})
	order, _ := f.Reconstruct(sol)

	fmt.Println("Order:", order)
	fmt.Println("Seam cost:", int(sol.Objective()))
	// Output:
	// Order: [2 1]
	// Seam cost: 15
}
