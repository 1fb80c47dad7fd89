// Package snr estimates the signal-to-noise ratio of complex acquisition
// data.
//
// The imaginary channel of a phase-corrected acquisition carries no signal,
// only receiver noise. The estimator takes the second half of that channel
// along the acquisition axis as a pure-noise sample (the first half may still
// contain signal leakage), computes its sample standard deviation, and
// reports max|Re| over the noise level.
package snr

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Errors returned by the estimator.
var (
	ErrNoiseSliceTooShort = errors.New("snr: noise slice needs at least 2 samples")
	ErrDegenerateNoise    = errors.New("snr: noise standard deviation is zero or non-finite")
)

// RecommendedMinimum is the advisory SNR floor below which truncation keeps
// too few singular components for a trustworthy inversion.
const RecommendedMinimum = 1000

// Estimate returns max|Re| / stddev(second half of Im) for vector data.
func Estimate(data []complex128) (float64, error) {
	noise := make([]float64, 0, len(data)-len(data)/2)
	for _, v := range data[len(data)/2:] {
		noise = append(noise, imag(v))
	}

	peak := 0.0
	for _, v := range data {
		if a := math.Abs(real(v)); a > peak {
			peak = a
		}
	}

	return ratio(peak, noise)
}

// EstimateMatrix returns max|Re| / stddev over the noise slice of 2D complex
// data. The noise slice is the second half of the imaginary channel along
// the longest axis, which for a separable acquisition is the acquisition
// (direct, if dominant) dimension.
func EstimateMatrix(data *mat.CDense) (float64, error) {
	rows, cols := data.Dims()

	var noise []float64
	if rows >= cols {
		noise = make([]float64, 0, (rows-rows/2)*cols)
		for i := rows / 2; i < rows; i++ {
			for j := 0; j < cols; j++ {
				noise = append(noise, imag(data.At(i, j)))
			}
		}
	} else {
		noise = make([]float64, 0, rows*(cols-cols/2))
		for i := 0; i < rows; i++ {
			for j := cols / 2; j < cols; j++ {
				noise = append(noise, imag(data.At(i, j)))
			}
		}
	}

	peak := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if a := math.Abs(real(data.At(i, j))); a > peak {
				peak = a
			}
		}
	}

	return ratio(peak, noise)
}

func ratio(peak float64, noise []float64) (float64, error) {
	if len(noise) < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrNoiseSliceTooShort, len(noise))
	}

	sigma := stat.StdDev(noise, nil)
	if sigma == 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return 0, fmt.Errorf("%w: sigma=%v", ErrDegenerateNoise, sigma)
	}

	return peak / sigma, nil
}
