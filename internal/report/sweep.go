// Package report produces curve data for plotting and report rendering:
// dense sweeps of the fitted curve over a return-period range, with
// undefined and unbounded evaluations filtered out so collaborators receive
// only renderable points.
package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/wind-extremes-service/internal/domain"
	"github.com/couchcryptid/wind-extremes-service/internal/observability"
)

// Default sweep bounds: start slightly above T=1 where the reduced variate
// diverges, out to the 10000-year event, sampled at 400 points.
const (
	DefaultMinReturnPeriod = 1.01
	DefaultMaxReturnPeriod = 10000
	DefaultPoints          = 400
)

// Spec describes one curve sweep request.
type Spec struct {
	MinReturnPeriod float64 `json:"min_return_period"`
	MaxReturnPeriod float64 `json:"max_return_period"`
	Points          int     `json:"points"`
	LogSpaced       bool    `json:"log_spaced"`
}

// DefaultSpec returns the standard plotting sweep. logSpaced follows the
// session's persisted scale preference.
func DefaultSpec(logSpaced bool) Spec {
	return Spec{
		MinReturnPeriod: DefaultMinReturnPeriod,
		MaxReturnPeriod: DefaultMaxReturnPeriod,
		Points:          DefaultPoints,
		LogSpaced:       logSpaced,
	}
}

// ErrInvalidSpec rejects sweeps with a non-increasing range, bounds at or
// below 1, or fewer than 2 points.
var ErrInvalidSpec = errors.New("invalid sweep: need 1 < min < max and at least 2 points")

// Point is one renderable curve sample.
type Point struct {
	ReturnPeriod float64 `json:"return_period"`
	WindSpeed    float64 `json:"wind_speed"`
}

// Generator produces sweeps with an LRU cache keyed by (params, spec).
// Plot and report collaborators re-request identical sweeps on every redraw;
// the cache key includes the fitted parameters, so a refit naturally misses.
type Generator struct {
	cache     *lruCache
	metrics   *observability.Metrics
	maxPoints int
}

// NewGenerator creates a Generator. maxPoints caps a single sweep request;
// zero or negative disables the cap.
func NewGenerator(cacheSize, maxPoints int, metrics *observability.Metrics) *Generator {
	return &Generator{
		cache:     newLRUCache(cacheSize),
		metrics:   metrics,
		maxPoints: maxPoints,
	}
}

// Sweep evaluates the curve across the spec's range and returns the
// renderable points, in increasing return-period order.
func (g *Generator) Sweep(curve domain.Curve, spec Spec) ([]Point, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	if g.maxPoints > 0 && spec.Points > g.maxPoints {
		return nil, fmt.Errorf("%w: at most %d points", ErrInvalidSpec, g.maxPoints)
	}

	key := sweepKey(curve.Params(), spec)
	if pts, ok := g.cache.get(key); ok {
		g.metrics.SweepCache.WithLabelValues("hit").Inc()
		return pts, nil
	}
	g.metrics.SweepCache.WithLabelValues("miss").Inc()

	pts := Generate(curve, spec)
	g.metrics.SweepPoints.Observe(float64(len(pts)))
	g.cache.put(key, pts)
	return pts, nil
}

// Generate evaluates one sweep without caching. Undefined and unbounded
// evaluations are dropped, leaving gaps rather than failures. An invalid
// spec yields no points.
func Generate(curve domain.Curve, spec Spec) []Point {
	if validateSpec(spec) != nil {
		return nil
	}
	ts := spacedValues(spec)
	pts := make([]Point, 0, len(ts))
	for _, t := range ts {
		v, ok := curve.WindSpeed(t).Float64()
		if !ok {
			continue
		}
		pts = append(pts, Point{ReturnPeriod: t, WindSpeed: v})
	}
	return pts
}

func validateSpec(spec Spec) error {
	if !(spec.MinReturnPeriod > 1) || spec.MaxReturnPeriod <= spec.MinReturnPeriod || spec.Points < 2 {
		return ErrInvalidSpec
	}
	return nil
}

// spacedValues builds the T samples, either log-spaced (even in log10) or
// linear, endpoints included.
func spacedValues(spec Spec) []float64 {
	n := spec.Points
	ts := make([]float64, n)
	if spec.LogSpaced {
		lo := math.Log10(spec.MinReturnPeriod)
		hi := math.Log10(spec.MaxReturnPeriod)
		step := (hi - lo) / float64(n-1)
		for i := range ts {
			ts[i] = math.Pow(10, lo+float64(i)*step)
		}
	} else {
		step := (spec.MaxReturnPeriod - spec.MinReturnPeriod) / float64(n-1)
		for i := range ts {
			ts[i] = spec.MinReturnPeriod + float64(i)*step
		}
	}
	// Pin the endpoints against accumulated rounding.
	ts[0] = spec.MinReturnPeriod
	ts[n-1] = spec.MaxReturnPeriod
	return ts
}

// sweepKey identifies a sweep result by the exact fit parameters and spec.
func sweepKey(params domain.FitParameters, spec Spec) string {
	return fmt.Sprintf("%.17g|%.17g|%.17g|%.17g|%d|%t",
		params.Location, params.Scale,
		spec.MinReturnPeriod, spec.MaxReturnPeriod, spec.Points, spec.LogSpaced)
}
