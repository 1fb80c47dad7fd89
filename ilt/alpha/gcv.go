package alpha

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-ilt/ilt/compress"
)

// GCV picks the regularization strength minimizing the generalized
// cross-validation score
//
//	score(a) = ||r(a)||^2 / (m - sum of filter factors)^2
//
// computed from the singular spectrum and projected data alone; no system is
// re-solved per candidate. The grid minimum is refined locally in log-space
// with Nelder-Mead; if the refinement fails or wanders, the grid minimum
// stands (it is a valid selection, not a fallback guess).
func GCV(red *compress.Reduced, grid []float64) (float64, error) {
	if len(grid) == 0 {
		return 0, ErrEmptyGrid
	}

	best, bestScore := grid[0], math.Inf(1)
	for _, a := range grid {
		if s := gcvScore(red, a); s < bestScore {
			best, bestScore = a, s
		}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return gcvScore(red, math.Pow(10, x[0]))
		},
	}
	res, err := optimize.Minimize(problem, []float64{math.Log10(best)}, nil, &optimize.NelderMead{})
	if err == nil && res != nil {
		if refined := math.Pow(10, res.X[0]); res.F < bestScore && refined > 0 && !math.IsInf(refined, 0) {
			best = refined
		}
	}
	return best, nil
}

// gcvScore evaluates the GCV functional from SVD quantities. With filter
// factors f_i, the regularized residual of component i is (1-f_i)*beta_i
// and the effective number of fitted parameters is sum f_i.
func gcvScore(red *compress.Reduced, a float64) float64 {
	m := float64(len(red.S))

	rho, trace := 0.0, 0.0
	for i, s := range red.S {
		s2 := s * s
		fi := s2 / (s2 + a)
		d := (1 - fi) * red.Y[i]
		rho += d * d
		trace += fi
	}

	den := m - trace
	if den <= 0 {
		return math.Inf(1)
	}
	return rho / (den * den)
}
