package indicator

// EMA is the exponential moving average with smoothing factor 2/(length+1).
// It is seeded from the first value, so every point of the output is defined.
func EMA(values []float64, length int) []float64 {
	return ewm(values, 2.0/(float64(length)+1.0), 1)
}
