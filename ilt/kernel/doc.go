// Package kernel builds forward-model matrices for exponential-decay
// acquisitions.
//
// A kernel maps a candidate distribution on a solution axis (relaxation
// times, diffusion coefficients) to the signal that distribution would
// produce on the acquisition axis. Pulse sequences are identified by an
// extensible tag; the tag-to-equation mapping is an open registry, so adding
// a sequence never touches the inversion code.
//
// # Usage
//
//	x := kernel.LogAxis(1e-4, 5, 32)   // acquisition times in seconds
//	T := kernel.LogAxis(1e-5, 10, 128) // candidate relaxation times
//	k, err := kernel.Build(kernel.IR, x, T)
package kernel
