package domain

import "errors"

// FitParameters holds the two fitted Gumbel parameters: the location μ
// (intercept) and the scale 1/α (slope) of the V-against-y regression line.
type FitParameters struct {
	Location float64 `json:"location"`
	Scale    float64 `json:"scale"`
}

var (
	// ErrInsufficientData means fewer than two observations were supplied.
	ErrInsufficientData = errors.New("at least two observations are required to fit")
	// ErrDegenerateInput means an observation produced an undefined reduced
	// variate despite ingestion validation (T ≤ 1 or numerically degenerate).
	ErrDegenerateInput = errors.New("reduced variate undefined for an observation")
	// ErrNumericalFailure means the design matrix is singular. With a
	// two-column design [y, 1] this happens exactly when every reduced
	// variate — hence every return period — is identical.
	ErrNumericalFailure = errors.New("singular fit: all return periods are identical")
)

// Fit estimates Gumbel parameters by ordinary least squares of wind speed
// against the reduced variate, minimizing the sum of squared residuals of
// V_i ≈ (1/α)·y_i + μ. With exactly two points the result is the exact line
// through both.
//
// Observations are assumed pre-validated (T > 1, V > 0); a violation
// surfaces as ErrDegenerateInput rather than a panic.
func Fit(obs ObservationSet) (FitParameters, error) {
	if len(obs) < 2 {
		return FitParameters{}, ErrInsufficientData
	}

	ys := make([]float64, len(obs))
	for i, o := range obs {
		y, ok := ReducedVariate(o.ReturnPeriod).Float64()
		if !ok {
			return FitParameters{}, ErrDegenerateInput
		}
		ys[i] = y
	}

	// Closed-form normal equations for the two-parameter line. The design
	// matrix [y, 1] is singular iff all y_i coincide, which the denominator
	// guard below catches.
	n := float64(len(obs))
	var sumY, sumV, sumYV, sumYY float64
	for i, o := range obs {
		sumY += ys[i]
		sumV += o.WindSpeed
		sumYV += ys[i] * o.WindSpeed
		sumYY += ys[i] * ys[i]
	}

	denom := n*sumYY - sumY*sumY
	if denom == 0 {
		return FitParameters{}, ErrNumericalFailure
	}

	scale := (n*sumYV - sumY*sumV) / denom
	location := (sumV - scale*sumY) / n
	return FitParameters{Location: location, Scale: scale}, nil
}
