package invert_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ilt/ilt/invert"
	"github.com/cwbudde/algo-ilt/ilt/kernel"
)

func ExampleInvert() {
	// A clean mono-exponential CPMG decay with T2 = 0.1 s.
	x := kernel.LogAxis(1e-4, 2, 32)
	y := make([]float64, len(x))
	for i, t := range x {
		y[i] = math.Exp(-t / 0.1)
	}

	res, err := invert.Invert(kernel.CPMG, x, y,
		invert.WithAlpha(1e-3),
		invert.WithBins(64),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// The recovered distribution peaks at the true relaxation time.
	best := 0
	for i, v := range res.Solution {
		if v > res.Solution[best] {
			best = i
		}
	}
	fmt.Printf("peak within [0.05, 0.2]: %v\n", res.Axis[best] > 0.05 && res.Axis[best] < 0.2)
	// Output:
	// peak within [0.05, 0.2]: true
}
