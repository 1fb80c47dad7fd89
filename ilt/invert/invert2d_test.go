package invert

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-ilt/ilt/kernel"
	"github.com/cwbudde/algo-ilt/internal/testutil"
)

// syntheticIRCPMG builds a separable IR x CPMG scenario with a bivariate
// ground-truth mixture and noise in both channels.
func syntheticIRCPMG(t *testing.T) (xDir, xInd []float64, truth *mat.Dense, data *mat.CDense) {
	t.Helper()

	xDir = kernel.LogAxis(1e-3, 2, 24)
	xInd = kernel.LogAxis(1e-3, 5, 18)
	XDir := kernel.LogAxis(1e-4, 5, 12)
	XInd := kernel.LogAxis(1e-4, 5, 10)

	kDir, err := kernel.Build(kernel.CPMG, xDir, XDir)
	if err != nil {
		t.Fatalf("direct kernel: %v", err)
	}
	kInd, err := kernel.Build(kernel.IR, xInd, XInd)
	if err != nil {
		t.Fatalf("indirect kernel: %v", err)
	}

	fDir := testutil.Bimodal(XDir, 1e-2, 0.15, 0.5, 0.12)
	fInd := testutil.Bimodal(XInd, 5e-3, 0.2, 1, 0.15)
	truth = mat.NewDense(len(XInd), len(XDir), nil)
	for p := range XInd {
		for q := range XDir {
			truth.Set(p, q, fInd[p]*fDir[q])
		}
	}

	var tmp, y mat.Dense
	tmp.Mul(kInd.M, truth)
	y.Mul(&tmp, kDir.M.T())

	peak := 0.0
	for i := 0; i < len(xInd); i++ {
		for j := 0; j < len(xDir); j++ {
			if a := y.At(i, j); a > peak {
				peak = a
			} else if -a > peak {
				peak = -a
			}
		}
	}

	reNoise := testutil.DeterministicGaussianNoise(31, 1e-3*peak, len(xInd)*len(xDir))
	imNoise := testutil.DeterministicGaussianNoise(32, 1e-3*peak, len(xInd)*len(xDir))
	data = mat.NewCDense(len(xInd), len(xDir), nil)
	for i := 0; i < len(xInd); i++ {
		for j := 0; j < len(xDir); j++ {
			idx := i*len(xDir) + j
			data.Set(i, j, complex(y.At(i, j)+reNoise[idx], imNoise[idx]))
		}
	}
	return xDir, xInd, truth, data
}

func TestInvert2DRoundTrip(t *testing.T) {
	xDir, xInd, truth, data := syntheticIRCPMG(t)

	res, err := Invert2D(kernel.IRCPMG, xDir, xInd, data,
		WithAlphaGCV(),
		WithRange(1e-4, 5),
		WithBins(12),
		WithIndirectRange(1e-4, 5),
		WithIndirectBins(10),
		WithOrder(2),
	)
	if err != nil {
		t.Fatalf("Invert2D: %v", err)
	}

	rows, cols := res.Solution2D.Dims()
	tr, tc := truth.Dims()
	if rows != tr || cols != tc {
		t.Fatalf("solution %dx%d, want %dx%d", rows, cols, tr, tc)
	}

	// Non-negativity over the whole grid.
	for i := 0; i < rows; i++ {
		testutil.RequireNonNegative(t, res.Solution2D.RawRowView(i))
	}

	// Relative Frobenius recovery error within the 1D round-trip tolerance.
	var diff mat.Dense
	diff.Sub(res.Solution2D, truth)
	if rel := mat.Norm(&diff, 2) / mat.Norm(truth, 2); rel >= 0.5 {
		t.Fatalf("relative recovery error %v, want < 0.5", rel)
	}

	if res.Kept <= 0 || res.Kept > res.Total {
		t.Fatalf("kept %d of %d mode pairs", res.Kept, res.Total)
	}
	rr, rc := res.Residual2D.Dims()
	if rr != len(xInd) || rc != len(xDir) {
		t.Fatalf("residual %dx%d, want %dx%d", rr, rc, len(xInd), len(xDir))
	}
}

func TestInvert2DFixedAlphaIdempotent(t *testing.T) {
	xDir, xInd, _, data := syntheticIRCPMG(t)

	opts := []Option{
		WithAlpha(1e-2),
		WithRange(1e-4, 5), WithBins(12),
		WithIndirectRange(1e-4, 5), WithIndirectBins(10),
	}

	first, err := Invert2D(kernel.IRCPMG, xDir, xInd, data, opts...)
	if err != nil {
		t.Fatalf("first Invert2D: %v", err)
	}
	second, err := Invert2D(kernel.IRCPMG, xDir, xInd, data, opts...)
	if err != nil {
		t.Fatalf("second Invert2D: %v", err)
	}

	if !mat.Equal(first.Solution2D, second.Solution2D) {
		t.Fatal("fixed-alpha 2D inversions differ")
	}
}

func TestInvert2DRejectsNonCombinedSequence(t *testing.T) {
	xDir, xInd, _, data := syntheticIRCPMG(t)

	if _, err := Invert2D(kernel.CPMG, xDir, xInd, data); !errors.Is(err, kernel.ErrNotCombined) {
		t.Fatalf("err = %v, want ErrNotCombined", err)
	}
}

func TestInvert2DShapeMismatch(t *testing.T) {
	xDir, xInd, _, _ := syntheticIRCPMG(t)

	bad := mat.NewCDense(2, 2, nil)
	if _, err := Invert2D(kernel.IRCPMG, xDir, xInd, bad); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}
