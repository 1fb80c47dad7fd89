// Package tikhonov solves regularized non-negative least-squares systems.
//
// The solver stacks the forward kernel with a scaled smoothness operator,
//
//	| K        |       | y |
//	| sqrt(a)*G| * f = | 0 |
//
// and minimizes the augmented residual subject to f >= 0. Physical
// distributions cannot be negative, so the non-negativity constraint is part
// of the problem statement, not a post-hoc projection. The smoothness order
// selects the penalty: 0 is plain ridge, 1 penalizes first differences,
// 2 penalizes curvature.
package tikhonov
