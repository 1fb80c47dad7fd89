package kernel

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by kernel construction.
var (
	ErrUnknownSequence = errors.New("kernel: unknown pulse sequence")
	ErrNotCombined     = errors.New("kernel: sequence is not a two-dimension combination")
	ErrCombined        = errors.New("kernel: combined sequence needs per-dimension kernels")
	ErrBadAxis         = errors.New("kernel: invalid axis")
)

func validateAcquisitionAxis(x []float64) error {
	if len(x) == 0 {
		return fmt.Errorf("%w: acquisition axis is empty", ErrBadAxis)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: acquisition axis value %v at index %d", ErrBadAxis, v, i)
		}
	}
	return nil
}

func validateSolutionAxis(X []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("%w: solution axis is empty", ErrBadAxis)
	}
	for i, v := range X {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: solution axis value %v at index %d (must be > 0)", ErrBadAxis, v, i)
		}
	}
	return nil
}
