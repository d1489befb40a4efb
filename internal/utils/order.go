package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundToDecimalPrecision rounds quantity down to decimalPrecision places.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

// RoundPrice rounds a limit price to cents, half away from zero.
func RoundPrice(price float64) float64 {
	return decimal.NewFromFloat(price).Round(2).InexactFloat64()
}

// BuyQuantity converts a cash amount into whole units at price. Halves round
// to the even neighbour.
func BuyQuantity(amount float64, price float64) float64 {
	if price <= 0 {
		return 0
	}

	return math.RoundToEven(amount / price)
}

// SellQuantity converts a cash amount into units at price without rounding,
// so that fractional residue can be closed.
func SellQuantity(amount float64, price float64) float64 {
	if price <= 0 {
		return 0
	}

	return amount / price
}
