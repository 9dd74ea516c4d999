// Package shapley turns scored perturbation rows back into per-feature
// contributions.
//
// Input is the ordered stream of predictions returned by an external scorer
// for the rows emitted by package chunk. The scorer must return rows in
// exactly the emitted order with their ids untouched; anything else is a
// protocol violation and aborts the run (ErrProtocolViolation), because
// silently repairing the stream would produce numerically wrong
// explanations.
//
// Layout expected for one source row with n features and k iterations:
//
//	x                          passthrough (raw row id)
//	x_0_0_i, x_0_0_r, …        foi 0: k intact/replaced pairs
//	x_1_0_i, x_1_0_r, …        foi 1
//	…
//	x_{n-1}_{k-1}_i, …_r
//
// For each (row, foi) and target t:
//
//	φ[foi][t] = (1/k) · Σᵢ (A_i[t] − B_i[t])
//
// The baseline (nullFx) is the mean prediction over the background rows and
// satisfies, in expectation, prediction(x) ≈ nullFx + Σ_foi φ[foi].
package shapley
