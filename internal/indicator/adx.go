package indicator

import "math"

// ADXResult holds the trend-strength index and both directional indicators,
// each aligned with the input series.
type ADXResult struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// ADX computes the average directional index with +DI and -DI. Directional
// movement keeps only the dominant side per bar: when upward movement is
// smaller than downward it is zeroed, and vice versa. All three lines use
// Wilder smoothing with alpha 1/length; the ADX line smooths the DX series a
// second time, so it warms up last.
func ADX(high, low, closes []float64, length int) ADXResult {
	n := len(high)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := range high {
		if i == 0 {
			plusDM[i] = math.NaN()
			minusDM[i] = math.NaN()
			continue
		}
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up < 0 {
			up = 0
		}
		if down < 0 {
			down = 0
		}
		if up < down {
			up = 0
		} else if down < up {
			down = 0
		}
		plusDM[i] = up
		minusDM[i] = down
	}

	alpha := 1.0 / float64(length)
	atr := ewm(TrueRange(high, low, closes), alpha, length)
	smoothPlus := ewm(plusDM, alpha, length)
	smoothMinus := ewm(minusDM, alpha, length)

	plusDI := make([]float64, n)
	minusDI := make([]float64, n)
	dx := make([]float64, n)
	for i := range plusDI {
		plusDI[i] = 100 * smoothPlus[i] / atr[i]
		minusDI[i] = 100 * smoothMinus[i] / atr[i]
		sum := plusDI[i] + minusDI[i]
		if sum == 0 {
			dx[i] = math.NaN()
			continue
		}
		dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
	}

	return ADXResult{
		ADX:     ewm(dx, alpha, length),
		PlusDI:  plusDI,
		MinusDI: minusDI,
	}
}
