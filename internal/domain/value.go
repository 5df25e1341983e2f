package domain

import "math"

type valueKind uint8

const (
	kindUndefined valueKind = iota
	kindDefined
	kindUnbounded
)

// Value is the result of a single evaluation: a finite number, undefined
// (out of domain), or unbounded (a return period beyond the saturation
// threshold). It replaces float NaN/Inf propagation with an explicit tagged
// value so invalid-result handling is visible at every call site.
type Value struct {
	v    float64
	kind valueKind
}

// Defined wraps a finite float. Non-finite inputs are normalized:
// NaN and -Inf become undefined, +Inf becomes unbounded.
func Defined(v float64) Value {
	switch {
	case math.IsNaN(v) || math.IsInf(v, -1):
		return Value{kind: kindUndefined}
	case math.IsInf(v, 1):
		return Value{kind: kindUnbounded}
	default:
		return Value{v: v, kind: kindDefined}
	}
}

// Undefined is the propagating sentinel for out-of-domain results.
func Undefined() Value { return Value{kind: kindUndefined} }

// Unbounded signals a practically unbounded return period.
func Unbounded() Value { return Value{kind: kindUnbounded} }

// IsDefined reports whether the value is a finite number.
func (x Value) IsDefined() bool { return x.kind == kindDefined }

// IsUndefined reports whether the value is the out-of-domain sentinel.
func (x Value) IsUndefined() bool { return x.kind == kindUndefined }

// IsUnbounded reports whether the value saturated to "practically infinite".
func (x Value) IsUnbounded() bool { return x.kind == kindUnbounded }

// Float64 returns the finite value and true, or (0, false) for undefined
// and unbounded values.
func (x Value) Float64() (float64, bool) {
	if x.kind != kindDefined {
		return 0, false
	}
	return x.v, true
}
