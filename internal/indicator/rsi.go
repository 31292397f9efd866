package indicator

import "math"

// RSI is the relative strength index with Wilder smoothing (alpha 1/length).
// The first length points are NaN while the gain and loss averages warm up.
// When the average loss is zero the RSI saturates at 100.
func RSI(values []float64, length int) []float64 {
	n := len(values)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := range values {
		if i == 0 {
			gains[i] = math.NaN()
			losses[i] = math.NaN()
			continue
		}
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	alpha := 1.0 / float64(length)
	avgGain := ewm(gains, alpha, length)
	avgLoss := ewm(losses, alpha, length)

	out := make([]float64, n)
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		switch {
		case math.IsNaN(g) || math.IsNaN(l):
			out[i] = math.NaN()
		case l == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+g/l)
		}
	}
	return out
}
