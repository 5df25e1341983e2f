package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_InsufficientData(t *testing.T) {
	_, err := Fit(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Fit(ObservationSet{{ReturnPeriod: 50, WindSpeed: 30}})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFit_DegenerateInput(t *testing.T) {
	// An out-of-domain return period that slipped past ingestion.
	obs := ObservationSet{
		{ReturnPeriod: 1, WindSpeed: 20},
		{ReturnPeriod: 50, WindSpeed: 30},
	}
	_, err := Fit(obs)
	assert.ErrorIs(t, err, ErrDegenerateInput)
}

func TestFit_NumericalFailure(t *testing.T) {
	// Identical return periods make the design matrix singular.
	obs := ObservationSet{
		{ReturnPeriod: 50, WindSpeed: 30},
		{ReturnPeriod: 50, WindSpeed: 32},
		{ReturnPeriod: 50, WindSpeed: 31},
	}
	_, err := Fit(obs)
	assert.ErrorIs(t, err, ErrNumericalFailure)
}

func TestFit_TwoPointsExact(t *testing.T) {
	obs := ObservationSet{
		{ReturnPeriod: 10, WindSpeed: 25.0},
		{ReturnPeriod: 50, WindSpeed: 32.0},
	}

	params, err := Fit(obs)
	require.NoError(t, err)

	c := NewCurve(params)
	for _, o := range obs {
		v, ok := c.WindSpeed(o.ReturnPeriod).Float64()
		require.True(t, ok)
		assert.InDelta(t, o.WindSpeed, v, 1e-9, "fitted line must pass through (%v, %v)", o.ReturnPeriod, o.WindSpeed)
	}
	assert.Positive(t, params.Scale, "wind speed increasing with return period implies positive scale")
}

func TestFit_RealisticScenario(t *testing.T) {
	obs := ObservationSet{
		{ReturnPeriod: 2, WindSpeed: 20},
		{ReturnPeriod: 10, WindSpeed: 30},
		{ReturnPeriod: 50, WindSpeed: 38},
		{ReturnPeriod: 100, WindSpeed: 42},
	}

	params, err := Fit(obs)
	require.NoError(t, err)
	assert.Positive(t, params.Scale)

	c := NewCurve(params)

	// Forward evaluation reproduces the observed 100-year speed within the
	// fit residual, and the inverse recovers the return period.
	v100, ok := c.WindSpeed(100).Float64()
	require.True(t, ok)
	assert.InDelta(t, 42, v100, 1.0)

	tBack, ok := c.ReturnPeriod(v100).Float64()
	require.True(t, ok)
	assert.InEpsilon(t, 100, tBack, 1e-6)
}

func TestFit_MoreThanTwoPointsMinimizesResiduals(t *testing.T) {
	// Points generated from a known line plus symmetric noise: the OLS fit
	// must recover the underlying parameters closely.
	truth := FitParameters{Location: 21.0, Scale: 4.5}
	line := NewCurve(truth)

	var obs ObservationSet
	noise := []float64{0.3, -0.3, 0.2, -0.2, 0.1, -0.1}
	for i, T := range []float64{2, 5, 10, 25, 50, 100} {
		v, ok := line.WindSpeed(T).Float64()
		require.True(t, ok)
		obs = append(obs, Observation{ReturnPeriod: T, WindSpeed: v + noise[i]})
	}

	params, err := Fit(obs)
	require.NoError(t, err)
	assert.InDelta(t, truth.Location, params.Location, 0.5)
	assert.InDelta(t, truth.Scale, params.Scale, 0.5)
}
