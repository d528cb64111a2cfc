// Package nullable holds helpers for optional monetary and percentage values.
// A nil *float64 means "cannot be computed from the data we have" and is
// carried through every calculation instead of a sentinel zero.
package nullable

import (
	"math"

	"github.com/shopspring/decimal"
)

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Or returns *v, or def when v is nil.
func Or(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Positive reports whether v is set and strictly greater than zero.
func Positive(v *float64) bool {
	return v != nil && *v > 0
}

// Map applies fn to *v, keeping nil as nil.
func Map(v *float64, fn func(float64) float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(fn(*v))
}

// Finite returns nil for NaN and infinities.
func Finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round2 rounds an optional value to two decimals.
func Round2(v *float64) *float64 {
	return Map(Finite(v), func(f float64) float64 { return Round(f, 2) })
}
