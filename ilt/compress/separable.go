package compress

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-ilt/ilt/kernel"
	"github.com/cwbudde/algo-ilt/ilt/snr"
)

// Pair identifies one retained combination of per-dimension singular modes.
type Pair struct {
	Indirect int
	Direct   int
}

// Reduced2D is a separable two-dimension problem collapsed into a single
// reduced system. Rows of K correspond to retained mode pairs; columns
// follow the row-major vectorization of the solution matrix F, whose rows
// run along the indirect solution axis and columns along the direct one.
type Reduced2D struct {
	Reduced

	Pairs []Pair

	// Kept and Total report the pair-selection diagnostic: retained mode
	// pairs out of all per-dimension combinations.
	Kept  int
	Total int

	// BinsIndirect and BinsDirect record the solution-grid shape the
	// vectorized solution reshapes back onto.
	BinsIndirect int
	BinsDirect   int
}

// Reduce2D compresses a separable acquisition with independent direct and
// indirect kernels.
//
// For Y = K_indirect * F * K_direct^T with per-dimension factorizations
// K = U*S*V^T, projecting Y onto the i-th left indirect mode and the j-th
// left direct mode gives
//
//	u_i^T * Y * u_j = s_i*s_j * (V_indirect[:,i] (outer) V_direct[:,j]) . F
//
// so each retained (i,j) pair contributes one scalar observation and one
// reduced-kernel row: the Kronecker combination of the two right singular
// vectors scaled by the combined singular value s_i*s_j. Pairs are kept
// when that combined value exceeds the 1/SNR noise floor and emitted in
// descending combined-value order. The left bases are fully absorbed into
// the reduced data vector.
//
// data rows must follow the indirect acquisition axis and columns the
// direct one.
func Reduce2D(kDirect, kIndirect *kernel.Kernel, data *mat.CDense) (*Reduced2D, error) {
	mDir, nDir := kDirect.Dims()
	mInd, nInd := kIndirect.Dims()

	rows, cols := data.Dims()
	if rows != mInd || cols != mDir {
		return nil, fmt.Errorf("%w: data %dx%d, want %dx%d (indirect x direct)",
			ErrShapeMismatch, rows, cols, mInd, mDir)
	}

	est, err := snr.EstimateMatrix(data)
	if err != nil {
		return nil, err
	}

	bDir, err := factorize(kDirect)
	if err != nil {
		return nil, err
	}
	bInd, err := factorize(kIndirect)
	if err != nil {
		return nil, err
	}

	// Joint mode values: every (indirect, direct) pair weighted by the
	// product of its per-dimension singular values.
	floor := 1 / est
	type scored struct {
		p Pair
		s float64
	}
	var kept []scored
	for i, si := range bInd.S {
		for j, sj := range bDir.S {
			if s := si * sj; s > floor {
				kept = append(kept, scored{Pair{Indirect: i, Direct: j}, s})
			}
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: snr=%.1f", ErrAllTruncated, est)
	}
	sort.Slice(kept, func(a, b int) bool { return kept[a].s > kept[b].s })

	reY := mat.NewDense(mInd, mDir, nil)
	for i := 0; i < mInd; i++ {
		for j := 0; j < mDir; j++ {
			reY.Set(i, j, real(data.At(i, j)))
		}
	}

	rk := mat.NewDense(len(kept), nInd*nDir, nil)
	beta := make([]float64, len(kept))
	sOut := make([]float64, len(kept))
	pairs := make([]Pair, len(kept))

	// Scratch for Re(Y) * u_direct.
	proj := make([]float64, mInd)
	uInd := make([]float64, mInd)
	uDir := make([]float64, mDir)

	for k, sc := range kept {
		i, j := sc.p.Indirect, sc.p.Direct

		mat.Col(uInd, i, bInd.U)
		mat.Col(uDir, j, bDir.U)

		for r := 0; r < mInd; r++ {
			proj[r] = floats.Dot(reY.RawRowView(r), uDir)
		}
		beta[k] = floats.Dot(uInd, proj)

		// Row-major Kronecker pairing: column p*nDir+q covers F[p,q].
		row := rk.RawRowView(k)
		for p := 0; p < nInd; p++ {
			vp := bInd.V.At(p, i)
			for q := 0; q < nDir; q++ {
				row[p*nDir+q] = sc.s * vp * bDir.V.At(q, j)
			}
		}

		sOut[k] = sc.s
		pairs[k] = sc.p
	}

	total := len(bInd.S) * len(bDir.S)
	return &Reduced2D{
		Reduced: Reduced{
			K:      rk,
			Y:      beta,
			S:      sOut,
			SNR:    est,
			LowSNR: est < snr.RecommendedMinimum,
		},
		Pairs:        pairs,
		Kept:         len(pairs),
		Total:        total,
		BinsIndirect: nInd,
		BinsDirect:   nDir,
	}, nil
}
