// Package nnls solves non-negative least-squares problems with the
// Lawson-Hanson active-set method.
//
// The exported Solver function type lets callers swap in a different
// implementation (projected gradient, bounded LBFGS) without touching the
// regularization code that consumes it.
package nnls

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by the solver.
var (
	ErrShapeMismatch = errors.New("nnls: matrix rows and vector length differ")
	ErrMaxIterations = errors.New("nnls: active-set iteration limit reached")
)

// Solver computes argmin ||A*x - b||_2 subject to x >= 0.
//
// Implementations must either return a fully non-negative solution or an
// error; a partially converged result is never acceptable.
type Solver func(a mat.Matrix, b mat.Vector) ([]float64, error)

// Solve is the default Solver.
//
// It implements the active-set method of Lawson and Hanson ("Solving Least
// Squares Problems", 1974, ch. 23), with the unconstrained subproblems
// solved by QR factorization. The iteration limit is 3*n, after which
// ErrMaxIterations is returned.
func Solve(a mat.Matrix, b mat.Vector) ([]float64, error) {
	m, n := a.Dims()
	if b.Len() != m {
		return nil, fmt.Errorf("%w: %dx%d vs %d", ErrShapeMismatch, m, n, b.Len())
	}

	x := make([]float64, n)
	w := make([]float64, n)
	passive := make([]bool, n)

	// Dual feasibility tolerance, scaled to the problem magnitude.
	tol := 10 * machEps * mat.Norm(a, 1) * float64(max(m, n)+1)

	maxIter := 3 * n
	iter := 0

	for {
		dual(a, b, x, w)

		// Most positive dual coordinate among the constrained variables.
		j, wmax := -1, tol
		for k := range w {
			if !passive[k] && w[k] > wmax {
				j, wmax = k, w[k]
			}
		}
		if j < 0 {
			// Kuhn-Tucker conditions hold.
			return x, nil
		}
		passive[j] = true

		// Inner loop: restore feasibility of the unconstrained solution on
		// the passive set, demoting variables that turn negative.
		for {
			if iter++; iter > maxIter {
				return nil, ErrMaxIterations
			}

			z, idx, err := solvePassive(a, b, passive)
			if err != nil {
				return nil, err
			}

			step, pivot := 1.0, -1
			for p, col := range idx {
				if z[p] <= 0 {
					t := x[col] / (x[col] - z[p])
					if t < step {
						step, pivot = t, p
					}
				}
			}

			if pivot < 0 {
				for p, col := range idx {
					x[col] = z[p]
				}
				break
			}

			// Interpolate x towards z and retire the blocking variables.
			for p, col := range idx {
				x[col] += step * (z[p] - x[col])
			}
			for p, col := range idx {
				if p == pivot || x[col] <= tol {
					x[col] = 0
					passive[col] = false
				}
			}
		}
	}
}

const machEps = 2.220446049250313e-16

// dual fills w with A^T * (b - A*x).
func dual(a mat.Matrix, b mat.Vector, x, w []float64) {
	m, n := a.Dims()

	var ax mat.VecDense
	ax.MulVec(a, mat.NewVecDense(n, x))

	r := mat.NewVecDense(m, nil)
	r.SubVec(b, &ax)

	var wv mat.VecDense
	wv.MulVec(a.T(), r)
	for i := range w {
		w[i] = wv.AtVec(i)
	}
}

// solvePassive solves the unconstrained least-squares problem restricted to
// the passive columns of a. It returns the subproblem solution alongside the
// column indices it refers to.
func solvePassive(a mat.Matrix, b mat.Vector, passive []bool) ([]float64, []int, error) {
	m, _ := a.Dims()

	var idx []int
	for col, p := range passive {
		if p {
			idx = append(idx, col)
		}
	}

	ap := mat.NewDense(m, len(idx), nil)
	for c, col := range idx {
		for r := 0; r < m; r++ {
			ap.Set(r, c, a.At(r, col))
		}
	}

	var z mat.VecDense
	if err := z.SolveVec(ap, b); err != nil {
		return nil, nil, fmt.Errorf("nnls: least-squares subproblem: %w", err)
	}

	out := make([]float64, len(idx))
	for i := range out {
		out[i] = z.AtVec(i)
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, nil, fmt.Errorf("nnls: non-finite subproblem solution at column %d", idx[i])
		}
	}
	return out, idx, nil
}
