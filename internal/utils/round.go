package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	PricePlaces   = 5
	PercentPlaces = 2
)

// Round rounds v half away from zero to the given decimal places.
// Non-finite values are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func RoundPrice(v float64) float64 {
	return Round(v, PricePlaces)
}

func RoundPercent(v float64) float64 {
	return Round(v, PercentPlaces)
}

// Scale multiplies price by factor in decimal space and rounds to price precision,
// so 1.1 * 0.997 yields exactly 1.0967.
func Scale(price, factor float64) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(factor)).Round(PricePlaces).InexactFloat64()
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
