package compress

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-ilt/ilt/kernel"
	"github.com/cwbudde/algo-ilt/ilt/snr"
)

// Errors returned by the compressor.
var (
	ErrShapeMismatch = errors.New("compress: data length inconsistent with kernel rows")
	ErrFactorization = errors.New("compress: SVD factorization failed")
	ErrAllTruncated  = errors.New("compress: no singular component above the noise floor")
)

// Basis holds a (possibly truncated) singular value decomposition of a
// kernel. U and V store one kept component per column; S is descending.
// For truncated bases every retained singular value exceeds 1/SNR.
type Basis struct {
	U *mat.Dense
	S []float64
	V *mat.Dense

	// Kept and Total report the truncation diagnostic: how many of the
	// original singular components survived the noise floor.
	Kept  int
	Total int
}

// Reduced is an inversion problem re-expressed in a singular basis.
//
// K has one row per retained component and one column per solution bin;
// Y holds the projected data beta = U^T*y. S mirrors the per-row singular
// values for the closed-form filter-factor computations used during
// regularization-parameter selection.
type Reduced struct {
	K *mat.Dense
	Y []float64
	S []float64

	// Basis is the decomposition the reduction came from. It is nil for
	// separable 2D reductions, where the left basis is fully absorbed into
	// the reduced data vector.
	Basis *Basis

	// SNR is the estimate used for truncation; zero for lossless real
	// reductions. LowSNR flags an estimate below snr.RecommendedMinimum.
	SNR    float64
	LowSNR bool
}

func factorize(k *kernel.Kernel) (*Basis, error) {
	var svd mat.SVD
	if ok := svd.Factorize(k.M, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: %v kernel", ErrFactorization, k.Seq)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	return &Basis{U: &u, S: s, V: &v, Kept: len(s), Total: len(s)}, nil
}

// truncate drops every component with singular value <= floor.
func (b *Basis) truncate(floor float64) *Basis {
	kept := 0
	for _, v := range b.S {
		if v > floor {
			kept++
		}
	}

	if kept == len(b.S) {
		return b
	}

	ur, _ := b.U.Dims()
	vr, _ := b.V.Dims()
	t := &Basis{
		S:     b.S[:kept],
		Kept:  kept,
		Total: b.Total,
	}
	if kept > 0 {
		t.U = b.U.Slice(0, ur, 0, kept).(*mat.Dense)
		t.V = b.V.Slice(0, vr, 0, kept).(*mat.Dense)
	}
	return t
}

// project builds the reduced system diag(S)*V^T, U^T*y from a basis.
func (b *Basis) project(y []float64) *Reduced {
	nBins, kept := b.V.Dims()
	rk := mat.NewDense(kept, nBins, nil)
	for i := 0; i < kept; i++ {
		row := rk.RawRowView(i)
		for j := 0; j < nBins; j++ {
			row[j] = b.S[i] * b.V.At(j, i)
		}
	}

	beta := make([]float64, kept)
	yv := mat.NewVecDense(len(y), y)
	var bv mat.VecDense
	bv.MulVec(b.U.T(), yv)
	for i := range beta {
		beta[i] = bv.AtVec(i)
	}

	return &Reduced{
		K:     rk,
		Y:     beta,
		S:     append([]float64(nil), b.S...),
		Basis: b,
	}
}

// Reduce losslessly re-expresses a real-data problem in the full singular
// basis of k. Every component is retained.
func Reduce(k *kernel.Kernel, data []float64) (*Reduced, error) {
	rows, _ := k.Dims()
	if len(data) != rows {
		return nil, fmt.Errorf("%w: %d observations, %d kernel rows", ErrShapeMismatch, len(data), rows)
	}

	basis, err := factorize(k)
	if err != nil {
		return nil, err
	}
	return basis.project(data), nil
}

// ReduceComplex truncates the singular basis of k at the 1/SNR noise floor
// estimated from data's imaginary channel, then projects the real channel
// onto the retained components.
func ReduceComplex(k *kernel.Kernel, data []complex128) (*Reduced, error) {
	rows, _ := k.Dims()
	if len(data) != rows {
		return nil, fmt.Errorf("%w: %d observations, %d kernel rows", ErrShapeMismatch, len(data), rows)
	}

	est, err := snr.Estimate(data)
	if err != nil {
		return nil, err
	}

	basis, err := factorize(k)
	if err != nil {
		return nil, err
	}

	basis = basis.truncate(1 / est)
	if basis.Kept == 0 {
		return nil, fmt.Errorf("%w: snr=%.1f", ErrAllTruncated, est)
	}

	re := make([]float64, len(data))
	for i, v := range data {
		re[i] = real(v)
	}

	out := basis.project(re)
	out.SNR = est
	out.LowSNR = est < snr.RecommendedMinimum
	return out, nil
}
