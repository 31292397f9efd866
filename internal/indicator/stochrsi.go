package indicator

import "math"

// StochRSIResult holds the smoothed %K and %D lines aligned with the input.
type StochRSIResult struct {
	K []float64
	D []float64
}

// StochRSI normalizes the RSI into [0,100] against its rolling min and max
// over the stochastic window, then smooths the result twice with simple
// moving averages of kSmooth and dSmooth. A flat RSI window, where the min
// equals the max, yields NaN rather than a fabricated extreme.
func StochRSI(values []float64, length, rsiLength, kSmooth, dSmooth int) StochRSIResult {
	rsiVals := RSI(values, rsiLength)
	lowest := RollingMin(rsiVals, length)
	highest := RollingMax(rsiVals, length)

	stoch := make([]float64, len(values))
	for i := range stoch {
		span := highest[i] - lowest[i]
		if math.IsNaN(span) || span == 0 {
			stoch[i] = math.NaN()
			continue
		}
		stoch[i] = (rsiVals[i] - lowest[i]) / span * 100
	}

	k := SMA(stoch, kSmooth)
	d := SMA(k, dSmooth)
	return StochRSIResult{K: k, D: d}
}
