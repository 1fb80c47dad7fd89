package tikhonov

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-ilt/internal/nnls"
)

// Errors returned by the solver.
var (
	ErrShapeMismatch = errors.New("tikhonov: data length inconsistent with kernel rows")
	ErrBadAlpha      = errors.New("tikhonov: regularization parameter must be positive and finite")
	ErrBadOrder      = errors.New("tikhonov: smoothness order must be 0, 1 or 2")
	ErrNoConvergence = errors.New("tikhonov: non-negative solver did not converge")
)

// NNLS computes argmin ||A*x - b||_2 subject to x >= 0. Active-set and
// projected-gradient implementations trade accuracy for speed differently at
// large problem sizes, so the backend is swappable per solve.
type NNLS func(a mat.Matrix, b mat.Vector) ([]float64, error)

// Solve minimizes ||K*f - y||^2 + alpha*||G*f||^2 subject to f >= 0 using
// the default non-negative solver. It returns the solution and the residual
// K*f - y in the unaugmented data space of k and y.
func Solve(k mat.Matrix, y []float64, alpha float64, order int) (f, r []float64, err error) {
	return SolveWith(nnls.Solve, k, y, alpha, order)
}

// SolveWith is Solve with an explicit non-negative least-squares backend.
func SolveWith(solver NNLS, k mat.Matrix, y []float64, alpha float64, order int) (f, r []float64, err error) {
	_, n := k.Dims()
	gamma, err := SmoothnessOperator(n, order)
	if err != nil {
		return nil, nil, err
	}
	return SolveOperatorWith(solver, k, y, alpha, gamma)
}

// SolveOperator is Solve with an explicit smoothness operator in place of
// the built-in difference penalties. gamma must be square with side equal to
// the kernel's column count; SmoothnessOperator2D builds the operator for
// vectorized two-dimension solutions.
func SolveOperator(k mat.Matrix, y []float64, alpha float64, gamma *mat.Dense) (f, r []float64, err error) {
	return SolveOperatorWith(nnls.Solve, k, y, alpha, gamma)
}

// SolveOperatorWith is SolveOperator with an explicit non-negative
// least-squares backend.
func SolveOperatorWith(solver NNLS, k mat.Matrix, y []float64, alpha float64, gamma *mat.Dense) (f, r []float64, err error) {
	m, n := k.Dims()
	if len(y) != m {
		return nil, nil, fmt.Errorf("%w: %d observations, %d kernel rows", ErrShapeMismatch, len(y), m)
	}
	if alpha <= 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadAlpha, alpha)
	}
	if gr, gc := gamma.Dims(); gr != n || gc != n {
		return nil, nil, fmt.Errorf("%w: operator %dx%d, kernel has %d columns", ErrShapeMismatch, gr, gc, n)
	}

	aug, b := augment(k, gamma, y, alpha)

	f, err = solver(aug, b)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	r = residual(k, f, y)
	return f, r, nil
}

// augment stacks k over sqrt(alpha)*gamma and y over a zero block.
func augment(k mat.Matrix, gamma *mat.Dense, y []float64, alpha float64) (*mat.Dense, *mat.VecDense) {
	m, n := k.Dims()
	sqrtAlpha := math.Sqrt(alpha)

	aug := mat.NewDense(m+n, n, nil)
	for i := 0; i < m; i++ {
		row := aug.RawRowView(i)
		for j := 0; j < n; j++ {
			row[j] = k.At(i, j)
		}
	}
	for i := 0; i < n; i++ {
		vecmath.ScaleBlock(aug.RawRowView(m+i), gamma.RawRowView(i), sqrtAlpha)
	}

	b := mat.NewVecDense(m+n, nil)
	for i, v := range y {
		b.SetVec(i, v)
	}
	return aug, b
}

// residual computes K*f - y.
func residual(k mat.Matrix, f, y []float64) []float64 {
	m, n := k.Dims()

	var kf mat.VecDense
	kf.MulVec(k, mat.NewVecDense(n, f))

	r := make([]float64, m)
	for i := range r {
		r[i] = kf.AtVec(i) - y[i]
	}
	return r
}
