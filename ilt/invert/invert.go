package invert

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-ilt/ilt/alpha"
	"github.com/cwbudde/algo-ilt/ilt/compress"
	"github.com/cwbudde/algo-ilt/ilt/kernel"
	"github.com/cwbudde/algo-ilt/ilt/snr"
	"github.com/cwbudde/algo-ilt/ilt/tikhonov"
)

// ErrShapeMismatch reports data whose length does not match the acquisition
// axis.
var ErrShapeMismatch = errors.New("invert: data length inconsistent with acquisition axis")

// Result holds one inversion outcome. Every Result is independently owned by
// its caller; calls share no mutable state.
type Result struct {
	Seq   kernel.Sequence
	Alpha float64
	Mode  AlphaMode
	Order int

	// SNR diagnostics; SNR is zero when the data was real-valued and no
	// estimate was needed.
	SNR    float64
	LowSNR bool

	// Kept and Total report the SVD truncation diagnostic.
	Kept  int
	Total int

	// One-dimension outputs.
	Axis     []float64
	Solution []float64
	Residual []float64

	// Two-dimension outputs. Solution2D rows follow the indirect solution
	// axis and columns the direct one.
	AxisDirect   []float64
	AxisIndirect []float64
	Solution2D   *mat.Dense
	Residual2D   *mat.Dense

	// Selection carries the L-curve diagnostics when that strategy ran.
	Selection *alpha.Diagnostics
}

// defaultRange returns the output solution-axis span for a sequence family:
// diffusion coefficients for pulsed-gradient data, relaxation times in
// seconds otherwise.
func defaultRange(seq kernel.Sequence) (lo, hi float64) {
	if seq == kernel.PFG {
		return 1e-13, 1e-8
	}
	return 1e-5, 10
}

func solutionAxis(seq kernel.Sequence, r axisRange) []float64 {
	lo, hi := r.lo, r.hi
	if lo == 0 {
		lo, hi = defaultRange(seq)
	}
	return kernel.LogAxis(lo, hi, r.bins)
}

// Invert recovers a non-negative distribution from real-valued decay data.
// The reduction to the singular basis is lossless for real data; no
// truncation or SNR estimate takes place.
func Invert(seq kernel.Sequence, x, data []float64, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)

	if len(data) != len(x) {
		return nil, fmt.Errorf("%w: %d observations, %d axis points", ErrShapeMismatch, len(data), len(x))
	}

	k, err := kernel.Build(seq, x, solutionAxis(seq, cfg.output))
	if err != nil {
		return nil, err
	}
	red, err := compress.Reduce(k, data)
	if err != nil {
		return nil, err
	}

	return run(k, red, data, cfg)
}

// InvertComplex recovers a non-negative distribution from complex decay
// data. The kernel's singular basis is truncated at the noise floor
// estimated from the imaginary channel before solving.
func InvertComplex(seq kernel.Sequence, x []float64, data []complex128, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)

	if len(data) != len(x) {
		return nil, fmt.Errorf("%w: %d observations, %d axis points", ErrShapeMismatch, len(data), len(x))
	}

	k, err := kernel.Build(seq, x, solutionAxis(seq, cfg.output))
	if err != nil {
		return nil, err
	}
	red, err := compress.ReduceComplex(k, data)
	if err != nil {
		return nil, err
	}

	re := make([]float64, len(data))
	for i, v := range data {
		re[i] = real(v)
	}
	return run(k, red, re, cfg)
}

// run resolves the regularization strength on the reduced system, performs
// the final solve, and assembles the result with the residual mapped back to
// the original data space.
func run(k *kernel.Kernel, red *compress.Reduced, y []float64, cfg config) (*Result, error) {
	res := &Result{
		Seq:    k.Seq,
		Mode:   cfg.mode,
		Order:  cfg.order,
		Axis:   k.T,
		SNR:    red.SNR,
		LowSNR: red.LowSNR,
	}
	if red.Basis != nil {
		res.Kept, res.Total = red.Basis.Kept, red.Basis.Total
	}
	warnLowSNR(red.SNR, red.LowSNR, cfg)

	a, sel, err := resolveAlpha(red, cfg)
	if err != nil {
		return nil, err
	}
	res.Alpha, res.Selection = a, sel

	f, _, err := solve(cfg, red.K, red.Y, a)
	if err != nil {
		return nil, err
	}
	res.Solution = f

	// Residual in the original, untruncated data space.
	var kf mat.VecDense
	kf.MulVec(k.M, mat.NewVecDense(len(f), f))
	res.Residual = make([]float64, len(y))
	for i := range res.Residual {
		res.Residual[i] = kf.AtVec(i) - y[i]
	}

	if cfg.saveDir != "" {
		if err := save(cfg.saveDir, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func resolveAlpha(red *compress.Reduced, cfg config) (float64, *alpha.Diagnostics, error) {
	grid := cfg.grid
	if grid == nil {
		grid = alpha.DefaultGrid()
	}

	switch cfg.mode {
	case AlphaFixed:
		return cfg.alpha, nil, nil
	case AlphaLCurve:
		return alpha.LCurve(red, grid)
	default:
		a, err := alpha.GCV(red, grid)
		return a, nil, err
	}
}

func solve(cfg config, k mat.Matrix, y []float64, a float64) (f, r []float64, err error) {
	if cfg.solver != nil {
		return tikhonov.SolveWith(cfg.solver, k, y, a, cfg.order)
	}
	return tikhonov.Solve(k, y, a, cfg.order)
}

func warnLowSNR(est float64, low bool, cfg config) {
	if low && cfg.warnf != nil {
		cfg.warnf("snr %.0f below recommended minimum %d, truncated basis may be too small", est, snr.RecommendedMinimum)
	}
}
