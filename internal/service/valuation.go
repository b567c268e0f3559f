package service

import "github.com/shopspring/decimal"

// CurrentValue is the market value of a holding: units times NAV, rounded to 2 places.
// The product is exact before rounding and halves round away from zero, so 1.005 x 1 is 1.01.
func CurrentValue(units, nav float64) float64 {
	v, _ := decimal.NewFromFloat(units).
		Mul(decimal.NewFromFloat(nav)).
		Round(2).
		Float64()
	return v
}
