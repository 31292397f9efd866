package indicator

// BollingerResult holds the three Bollinger Bands aligned with the input.
type BollingerResult struct {
	Upper []float64
	Mid   []float64
	Lower []float64
}

// BollingerBands computes a rolling-mean midline with upper and lower bands
// offset by mult sample standard deviations. The first length-1 points are
// NaN while the window fills.
func BollingerBands(values []float64, length int, mult float64) BollingerResult {
	mid := SMA(values, length)
	std := RollingStd(values, length)

	upper := make([]float64, len(values))
	lower := make([]float64, len(values))
	for i := range values {
		upper[i] = mid[i] + mult*std[i]
		lower[i] = mid[i] - mult*std[i]
	}
	return BollingerResult{Upper: upper, Mid: mid, Lower: lower}
}
