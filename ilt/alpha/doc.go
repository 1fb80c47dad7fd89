// Package alpha selects the Tikhonov regularization strength automatically.
//
// Two independent strategies are provided, both pure functions of the
// singular spectrum and projected data. LCurve scans a geometric grid of
// candidate strengths and picks the corner of the residual-norm versus
// solution-norm curve, located as the maximum of the closed-form curvature
// in log-log space. GCV minimizes the generalized cross-validation score, an
// approximation of leave-one-out prediction error. Neither strategy re-solves
// the system per candidate; the orchestrator solves once at the chosen
// strength.
//
// Grid points share no state, so LCurve evaluates them concurrently.
package alpha
