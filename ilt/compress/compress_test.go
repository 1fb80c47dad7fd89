package compress

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-ilt/ilt/kernel"
	"github.com/cwbudde/algo-ilt/internal/testutil"
)

func buildTestKernel(t *testing.T, nx, nX int) *kernel.Kernel {
	t.Helper()
	k, err := kernel.Build(kernel.CPMG, kernel.LogAxis(1e-3, 3, nx), kernel.LogAxis(1e-4, 10, nX))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return k
}

func TestReduceIsLossless(t *testing.T) {
	k := buildTestKernel(t, 24, 40)

	fTrue := testutil.Bimodal(k.T, 1e-2, 0.12, 0.5, 0.1)
	y := make([]float64, len(k.X))
	yv := mat.NewVecDense(len(y), y)
	yv.MulVec(k.M, mat.NewVecDense(len(fTrue), fTrue))

	red, err := Reduce(k, y)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	if red.Basis == nil || red.Basis.Kept != red.Basis.Total {
		t.Fatal("real-data reduction must retain every component")
	}

	// Orthonormal reparametrization preserves least-squares residuals:
	// ||K*x - y|| must equal ||K'*x - y'|| for any x.
	x := testutil.Bimodal(k.T, 3e-3, 0.2, 1.2, 0.3)
	xv := mat.NewVecDense(len(x), x)

	var full mat.VecDense
	full.MulVec(k.M, xv)
	full.SubVec(&full, yv)

	var reduced mat.VecDense
	reduced.MulVec(red.K, xv)
	reduced.SubVec(&reduced, mat.NewVecDense(len(red.Y), red.Y))

	if d := math.Abs(mat.Norm(&full, 2) - mat.Norm(&reduced, 2)); d > 1e-10 {
		t.Fatalf("residual norms differ by %v", d)
	}
}

func TestReduceComplexTruncatesAtNoiseFloor(t *testing.T) {
	k := buildTestKernel(t, 48, 64)

	fTrue := testutil.Bimodal(k.T, 1e-2, 0.12, 0.5, 0.1)
	re := make([]float64, len(k.X))
	rv := mat.NewVecDense(len(re), re)
	rv.MulVec(k.M, mat.NewVecDense(len(fTrue), fTrue))
	im := testutil.DeterministicGaussianNoise(5, 1e-4, len(re))

	red, err := ReduceComplex(k, testutil.ComplexFromChannels(re, im))
	if err != nil {
		t.Fatalf("ReduceComplex: %v", err)
	}

	if red.SNR <= 0 {
		t.Fatalf("snr = %v, want > 0", red.SNR)
	}
	floor := 1 / red.SNR
	for i, s := range red.S {
		if s <= floor {
			t.Fatalf("retained component %d has value %v <= floor %v", i, s, floor)
		}
	}
	if red.Basis.Kept > red.Basis.Total {
		t.Fatalf("kept %d > total %d", red.Basis.Kept, red.Basis.Total)
	}
	if rows, _ := red.K.Dims(); rows != red.Basis.Kept || len(red.Y) != red.Basis.Kept {
		t.Fatal("reduced system shape inconsistent with kept count")
	}
}

func TestReduceComplexLowSNRFlag(t *testing.T) {
	k := buildTestKernel(t, 64, 32)

	re := make([]float64, len(k.X))
	re[0] = 1
	im := testutil.DeterministicGaussianNoise(9, 0.05, len(re)) // SNR ~ 20

	red, err := ReduceComplex(k, testutil.ComplexFromChannels(re, im))
	if err != nil {
		t.Fatalf("ReduceComplex: %v", err)
	}
	if !red.LowSNR {
		t.Fatalf("snr = %v: LowSNR flag not set", red.SNR)
	}
}

func TestReduceShapeMismatch(t *testing.T) {
	k := buildTestKernel(t, 8, 8)

	if _, err := Reduce(k, make([]float64, 7)); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
	if _, err := ReduceComplex(k, make([]complex128, 9)); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}
