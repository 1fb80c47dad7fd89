// Package compress projects inversion problems into a truncated SVD basis.
//
// For real data the reduction is a lossless reparametrization: with
// K = U*S*V^T and U orthonormal, solving diag(S)*V^T against U^T*y is the
// same least-squares problem in fewer rows. For complex data the package
// first estimates the SNR from the imaginary channel and then discards
// every singular component at or below the 1/SNR noise floor, removing the
// subspace dominated by receiver noise before the solver sees it.
//
// Separable two-dimension acquisitions are reduced by factorizing each
// per-dimension kernel independently and keeping only the pairs of singular
// modes whose combined magnitude clears the noise floor; see Reduce2D.
package compress
