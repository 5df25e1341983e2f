package domain

import "math"

// ProbSaturationEps is the margin below 1 at which the non-exceedance
// probability is treated as saturated and the inverse evaluation returns an
// unbounded return period instead of dividing by a vanishing remainder.
// The value is an implementation parameter, not a physical constant; it
// bounds the largest representable return period at roughly 1/eps years.
const ProbSaturationEps = 1e-9

// ReducedVariate maps a return period T to the standardized Gumbel reduced
// variate y = -ln(-ln(1 - 1/T)). Defined only for T > 1; anything else
// (including T = 1, zero, negatives, NaN) yields the undefined sentinel.
func ReducedVariate(t float64) Value {
	if !(t > 1) {
		return Undefined()
	}
	return Defined(-math.Log(-math.Log(1 - 1/t)))
}

// ReducedVariateSeries applies ReducedVariate elementwise. Invalid elements
// come back undefined so callers can evaluate over partially invalid ranges
// and filter afterwards.
func ReducedVariateSeries(ts []float64) []Value {
	ys := make([]Value, len(ts))
	for i, t := range ts {
		ys[i] = ReducedVariate(t)
	}
	return ys
}

// Curve is a fitted Gumbel relationship between return period and wind
// speed. The zero Curve evaluates everything to undefined; obtain a usable
// one from Fit via NewCurve.
type Curve struct {
	params FitParameters
	fitted bool
}

// NewCurve wraps fitted parameters in an evaluator.
func NewCurve(params FitParameters) Curve {
	return Curve{params: params, fitted: true}
}

// Params returns the fitted parameters.
func (c Curve) Params() FitParameters { return c.params }

// WindSpeed evaluates the fitted line forward: V = μ + (1/α)·y(T).
// Undefined reduced variates propagate.
func (c Curve) WindSpeed(t float64) Value {
	if !c.fitted {
		return Undefined()
	}
	y, ok := ReducedVariate(t).Float64()
	if !ok {
		return Undefined()
	}
	return Defined(c.params.Location + c.params.Scale*y)
}

// ReturnPeriod inverts the fitted line: y = (V-μ)·α, p = exp(-exp(-y)),
// T = 1/(1-p). A probability within ProbSaturationEps of 1 saturates to
// unbounded. A zero scale makes the inversion undefined.
func (c Curve) ReturnPeriod(v float64) Value {
	if !c.fitted || c.params.Scale == 0 {
		return Undefined()
	}
	y := (v - c.params.Location) / c.params.Scale
	p := math.Exp(-math.Exp(-y))
	if p >= 1-ProbSaturationEps {
		return Unbounded()
	}
	return Defined(1 / (1 - p))
}

// WindSpeedSeries evaluates WindSpeed elementwise.
func (c Curve) WindSpeedSeries(ts []float64) []Value {
	vs := make([]Value, len(ts))
	for i, t := range ts {
		vs[i] = c.WindSpeed(t)
	}
	return vs
}

// ReturnPeriodSeries evaluates ReturnPeriod elementwise, applying the
// saturation rule per element.
func (c Curve) ReturnPeriodSeries(vs []float64) []Value {
	ts := make([]Value, len(vs))
	for i, v := range vs {
		ts[i] = c.ReturnPeriod(v)
	}
	return ts
}
