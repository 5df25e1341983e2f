package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReducedVariate_OutOfDomain(t *testing.T) {
	tests := []struct {
		name string
		t    float64
	}{
		{"exactly one", 1},
		{"zero", 0},
		{"negative", -10},
		{"between zero and one", 0.5},
		{"NaN", math.NaN()},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := ReducedVariate(tt.t)
			assert.True(t, y.IsUndefined(), "T=%v must yield the undefined sentinel", tt.t)
		})
	}
}

func TestReducedVariate_StrictlyIncreasing(t *testing.T) {
	periods := []float64{1.0001, 1.01, 1.1, 2, 5, 10, 50, 100, 1000, 10000, 1e6}

	prev := math.Inf(-1)
	for _, T := range periods {
		y, ok := ReducedVariate(T).Float64()
		require.True(t, ok, "T=%v", T)
		assert.Greater(t, y, prev, "reduced variate must increase with T (T=%v)", T)
		prev = y
	}

	// Asymptotes: very negative near T=1+, very positive as T grows.
	nearOne, ok := ReducedVariate(1 + 1e-12).Float64()
	require.True(t, ok)
	assert.Less(t, nearOne, -3.0)

	huge, ok := ReducedVariate(1e15).Float64()
	require.True(t, ok)
	assert.Greater(t, huge, 30.0)
}

func TestReducedVariate_KnownValues(t *testing.T) {
	// y(T) = -ln(-ln(1-1/T)); classic engineering reference values.
	tests := []struct {
		t    float64
		want float64
	}{
		{2, 0.36651292058166435},
		{10, 2.2503673273124454},
		{50, 3.9019386579358333},
		{100, 4.600149226776579},
	}

	for _, tt := range tests {
		y, ok := ReducedVariate(tt.t).Float64()
		require.True(t, ok)
		assert.InDelta(t, tt.want, y, 1e-12, "T=%v", tt.t)
	}
}

func TestReducedVariateSeries_PartiallyInvalid(t *testing.T) {
	ys := ReducedVariateSeries([]float64{0.5, 1, 2, 10, -3})

	require.Len(t, ys, 5)
	assert.True(t, ys[0].IsUndefined())
	assert.True(t, ys[1].IsUndefined())
	assert.True(t, ys[2].IsDefined())
	assert.True(t, ys[3].IsDefined())
	assert.True(t, ys[4].IsUndefined())
}

func TestCurve_ZeroValueEvaluatesUndefined(t *testing.T) {
	var c Curve
	assert.True(t, c.WindSpeed(100).IsUndefined())
	assert.True(t, c.ReturnPeriod(40).IsUndefined())
}

func TestCurve_WindSpeed(t *testing.T) {
	c := NewCurve(FitParameters{Location: 20, Scale: 5})

	t.Run("forward evaluation", func(t *testing.T) {
		y, ok := ReducedVariate(50).Float64()
		require.True(t, ok)

		v, ok := c.WindSpeed(50).Float64()
		require.True(t, ok)
		assert.InDelta(t, 20+5*y, v, 1e-12)
	})

	t.Run("sentinel propagates for T <= 1", func(t *testing.T) {
		assert.True(t, c.WindSpeed(1).IsUndefined())
		assert.True(t, c.WindSpeed(0.2).IsUndefined())
	})

	t.Run("series has gaps, not errors", func(t *testing.T) {
		vs := c.WindSpeedSeries([]float64{0.5, 10, 100})
		require.Len(t, vs, 3)
		assert.True(t, vs[0].IsUndefined())
		assert.True(t, vs[1].IsDefined())
		assert.True(t, vs[2].IsDefined())
	})
}

func TestCurve_ReturnPeriod(t *testing.T) {
	c := NewCurve(FitParameters{Location: 20, Scale: 5})

	t.Run("zero scale is undefined", func(t *testing.T) {
		flat := NewCurve(FitParameters{Location: 20, Scale: 0})
		assert.True(t, flat.ReturnPeriod(25).IsUndefined())
	})

	t.Run("monotone non-decreasing then unbounded", func(t *testing.T) {
		prev := 0.0
		sawUnbounded := false
		for v := 10.0; v <= 400; v += 5 {
			res := c.ReturnPeriod(v)
			if res.IsUnbounded() {
				sawUnbounded = true
				continue
			}
			T, ok := res.Float64()
			require.True(t, ok, "V=%v", v)
			require.False(t, sawUnbounded, "finite result after saturation at V=%v", v)
			assert.GreaterOrEqual(t, T, prev, "V=%v", v)
			prev = T
		}
		assert.True(t, sawUnbounded, "large wind speeds must saturate to unbounded")
	})

	t.Run("elementwise saturation", func(t *testing.T) {
		ts := c.ReturnPeriodSeries([]float64{25, 1000})
		require.Len(t, ts, 2)
		assert.True(t, ts[0].IsDefined())
		assert.True(t, ts[1].IsUnbounded())
	})
}

func TestCurve_RoundTrip(t *testing.T) {
	c := NewCurve(FitParameters{Location: 22.5, Scale: 4.2})

	for _, T := range []float64{1.5, 2, 10, 50, 100, 1000, 4999} {
		v, ok := c.WindSpeed(T).Float64()
		require.True(t, ok, "T=%v", T)

		back, ok := c.ReturnPeriod(v).Float64()
		require.True(t, ok, "T=%v", T)
		assert.InEpsilon(t, T, back, 1e-6, "round trip T=%v", T)
	}
}
