package utils

import "math"

// RoundToDecimalPrecision floors the quantity to the specified decimal precision.
// Flooring keeps the order inside the allocated notional.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

// OrderQuantity converts an allocated margin notional into a contract
// quantity at the given price and leverage.
func OrderQuantity(notional float64, price float64, leverage int) float64 {
	if notional <= 0 || price <= 0 || leverage <= 0 {
		return 0
	}

	return notional * float64(leverage) / price
}
