// Package numeric holds small numeric helpers shared by the analytics and ml
// packages: decimal rounding, type-7 quantiles and NaN filtering.
package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds v to the given number of decimal places using half-to-even,
// the rule the reporting layer has always used. NaN and infinities are
// returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	out, _ := decimal.NewFromFloat(v).RoundBank(places).Float64()
	return out
}

// RoundAll rounds every element of xs
func RoundAll(xs []float64, places int32) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = Round(v, places)
	}
	return out
}

// Nullable rounds v and returns nil for values JSON cannot carry.
func Nullable(v float64, places int32) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := Round(v, places)
	return &r
}

// Finite returns v, or fallback when v is NaN or infinite
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
