package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DeterministicGaussianNoise generates zero-mean Gaussian noise with the
// given standard deviation and a fixed seed.
func DeterministicGaussianNoise(seed int64, sigma float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}
	return out
}

// Bimodal evaluates a two-peak log-normal mixture on the solution axis.
// Peaks sit at centers c1 and c2 (same units as the axis) with log-domain
// widths w1 and w2. The result is normalized to unit sum so inversion tests
// can compare against it directly.
func Bimodal(axis []float64, c1, w1, c2, w2 float64) []float64 {
	out := make([]float64, len(axis))
	sum := 0.0
	for i, v := range axis {
		d1 := (math.Log10(v) - math.Log10(c1)) / w1
		d2 := (math.Log10(v) - math.Log10(c2)) / w2
		out[i] = math.Exp(-d1*d1/2) + 0.6*math.Exp(-d2*d2/2)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// ComplexFromChannels interleaves separate real and imaginary channels into
// complex samples. Both slices must have the same length.
func ComplexFromChannels(re, im []float64) []complex128 {
	out := make([]complex128, len(re))
	for i := range out {
		out[i] = complex(re[i], im[i])
	}
	return out
}

// MonoExpDecay generates exp(-t/tau) samples scaled by amplitude.
func MonoExpDecay(t []float64, tau, amplitude float64) []float64 {
	out := make([]float64, len(t))
	for i, v := range t {
		out[i] = amplitude * math.Exp(-v/tau)
	}
	return out
}
