// Package invert composes kernel construction, SVD compression,
// regularization-parameter selection and the non-negative Tikhonov solve
// into a single inversion call.
//
// # Usage
//
//	x := kernel.LogAxis(1e-4, 5, 32) // acquisition times
//	res, err := invert.Invert(kernel.IR, x, data,
//		invert.WithAlphaLCurve(),
//		invert.WithOrder(2),
//	)
//
// Invert is pure given its inputs: identical inputs with a fixed
// regularization strength produce identical results, and the only observable
// side effects are the optional low-SNR advisory hook and the artifact files
// written when WithSave is set.
package invert
