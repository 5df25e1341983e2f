package report

import (
	"testing"

	"github.com/couchcryptid/wind-extremes-service/internal/domain"
	"github.com/couchcryptid/wind-extremes-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCurve = domain.NewCurve(domain.FitParameters{Location: 20, Scale: 5})

func TestGenerate_DefaultSweep(t *testing.T) {
	pts := Generate(testCurve, DefaultSpec(true))

	require.Len(t, pts, DefaultPoints, "every default sample is in domain")
	assert.Equal(t, DefaultMinReturnPeriod, pts[0].ReturnPeriod)
	assert.Equal(t, float64(DefaultMaxReturnPeriod), pts[len(pts)-1].ReturnPeriod)

	// Increasing T, increasing V for a positive-scale fit.
	for i := 1; i < len(pts); i++ {
		assert.Greater(t, pts[i].ReturnPeriod, pts[i-1].ReturnPeriod)
		assert.Greater(t, pts[i].WindSpeed, pts[i-1].WindSpeed)
	}
}

func TestGenerate_LinearSpacing(t *testing.T) {
	spec := Spec{MinReturnPeriod: 2, MaxReturnPeriod: 10, Points: 5, LogSpaced: false}
	pts := Generate(testCurve, spec)

	require.Len(t, pts, 5)
	assert.InDelta(t, 2, pts[0].ReturnPeriod, 1e-12)
	assert.InDelta(t, 4, pts[1].ReturnPeriod, 1e-12)
	assert.InDelta(t, 6, pts[2].ReturnPeriod, 1e-12)
	assert.InDelta(t, 8, pts[3].ReturnPeriod, 1e-12)
	assert.InDelta(t, 10, pts[4].ReturnPeriod, 1e-12)
}

func TestGenerate_LogSpacing(t *testing.T) {
	spec := Spec{MinReturnPeriod: 10, MaxReturnPeriod: 1000, Points: 3, LogSpaced: true}
	pts := Generate(testCurve, spec)

	require.Len(t, pts, 3)
	assert.InDelta(t, 10, pts[0].ReturnPeriod, 1e-9)
	assert.InDelta(t, 100, pts[1].ReturnPeriod, 1e-9)
	assert.InDelta(t, 1000, pts[2].ReturnPeriod, 1e-9)
}

func TestGenerate_InvalidSpecYieldsNoPoints(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"zero points", Spec{MinReturnPeriod: 2, MaxReturnPeriod: 100, Points: 0}},
		{"single point", Spec{MinReturnPeriod: 2, MaxReturnPeriod: 100, Points: 1}},
		{"inverted range", Spec{MinReturnPeriod: 100, MaxReturnPeriod: 10, Points: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Generate(testCurve, tt.spec))
		})
	}
}

func TestGenerate_UnfitCurveYieldsNoPoints(t *testing.T) {
	var unfit domain.Curve
	pts := Generate(unfit, DefaultSpec(true))
	assert.Empty(t, pts, "the zero curve evaluates everything to undefined")
}

func TestGenerator_Sweep(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	g := NewGenerator(8, 2000, metrics)

	spec := DefaultSpec(true)

	first, err := g.Sweep(testCurve, spec)
	require.NoError(t, err)
	require.Len(t, first, DefaultPoints)

	// Identical request is served from cache with identical output.
	second, err := g.Sweep(testCurve, spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A refit (different params) is a different key.
	refit := domain.NewCurve(domain.FitParameters{Location: 21, Scale: 5})
	third, err := g.Sweep(refit, spec)
	require.NoError(t, err)
	assert.NotEqual(t, first[0].WindSpeed, third[0].WindSpeed)
}

func TestGenerator_SpecValidation(t *testing.T) {
	g := NewGenerator(8, 500, observability.NewMetricsForTesting())

	tests := []struct {
		name string
		spec Spec
	}{
		{"min at one", Spec{MinReturnPeriod: 1, MaxReturnPeriod: 100, Points: 10}},
		{"min below one", Spec{MinReturnPeriod: 0.5, MaxReturnPeriod: 100, Points: 10}},
		{"inverted range", Spec{MinReturnPeriod: 100, MaxReturnPeriod: 10, Points: 10}},
		{"single point", Spec{MinReturnPeriod: 2, MaxReturnPeriod: 100, Points: 1}},
		{"over point cap", Spec{MinReturnPeriod: 2, MaxReturnPeriod: 100, Points: 501}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Sweep(testCurve, tt.spec)
			assert.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", []Point{{ReturnPeriod: 1}})
	c.put("b", []Point{{ReturnPeriod: 2}})

	// Touch "a" so "b" is least recently used.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", []Point{{ReturnPeriod: 3}})

	_, ok = c.get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}
