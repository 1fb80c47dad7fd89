package kernel_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ilt/ilt/kernel"
)

func ExampleBuild() {
	x := kernel.LogAxis(1e-4, 5, 32)
	T := kernel.LogAxis(1e-5, 10, 128)

	k, err := kernel.Build(kernel.CPMG, x, T)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	rows, cols := k.Dims()
	fmt.Printf("%d observations x %d solution bins\n", rows, cols)
	// Output:
	// 32 observations x 128 solution bins
}

func ExampleRegister() {
	// A stretched-exponential decay becomes available to the whole
	// inversion pipeline with a single registry entry.
	kernel.Register("stretched", func(t, T float64) float64 {
		return math.Exp(-math.Sqrt(t / T))
	})

	k, err := kernel.Build("stretched", []float64{0.5}, []float64{1})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	rows, cols := k.Dims()
	fmt.Printf("%dx%d\n", rows, cols)
	// Output:
	// 1x1
}
