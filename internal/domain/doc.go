// Package domain implements Gumbel Type I extreme-value wind-speed
// estimation from (return period, wind speed) observations.
//
// # Method
//
// Annual-maximum wind speeds are modelled with the Gumbel (Type I extreme
// value) distribution. Its CDF, with location μ and scale σ = 1/α, is
//
//	F(V) = exp{-exp{-(V-μ)/σ}}
//
// The return period T of a wind speed V_T is the reciprocal of its annual
// exceedance probability: T = 1/(1 - F(V_T)). Substituting the Gumbel CDF
// and solving for V_T linearizes the relationship through the reduced
// variate
//
//	y_T = -ln(-ln(1 - 1/T))
//	V_T = μ + (1/α)·y_T
//
// Parameters are estimated by ordinary least squares of observed wind
// speeds against the reduced variates of their return periods: the slope is
// the scale (1/α), the intercept the location (μ). With exactly two
// observations the fit is the exact line through both.
//
// # Domain and sentinel policy
//
// The reduced variate is only defined for T > 1 (an event that recurs every
// year or more often has no meaningful annual-maximum return period).
// Out-of-domain inputs never raise: they produce an undefined [Value] that
// propagates through downstream arithmetic, so bulk evaluation over a
// partially invalid range yields gaps rather than failures. Callers that
// sweep T ranges for plotting filter these afterwards.
//
// The inverse direction saturates: as V grows, the non-exceedance
// probability approaches 1 and the return period diverges. Probabilities
// within [ProbSaturationEps] of 1 yield an unbounded [Value], a signal
// distinct from undefined.
//
// # Ingestion
//
// Observations arrive as raw text pairs (one per table row). ParseRows
// validates the whole batch: every row must parse as numbers with T > 1 and
// V > 0, and the first bad row fails the batch with its index and the kind
// of problem. Rows with an empty cell are skipped, matching spreadsheet-style
// input where trailing blank rows are common.
package domain
