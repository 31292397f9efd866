package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// TrueRange is the per-bar true range: the greatest of high-low,
// |high - previous close| and |low - previous close|. The first bar has no
// previous close and falls back to high-low.
func TrueRange(high, low, closes []float64) []float64 {
	out := make([]float64, len(high))
	for i := range high {
		tr := high[i] - low[i]
		if i > 0 {
			tr = math.Max(tr, math.Abs(high[i]-closes[i-1]))
			tr = math.Max(tr, math.Abs(low[i]-closes[i-1]))
		}
		out[i] = tr
	}
	return out
}

// ATR is the Wilder-smoothed average true range. The first length-1 points
// are NaN while the smoothing warms up.
func ATR(high, low, closes []float64, length int) []float64 {
	return ewm(TrueRange(high, low, closes), 1.0/float64(length), length)
}

// ATRLast returns the final ATR value, or None when the series is too short
// for the smoothing to have warmed up.
func ATRLast(high, low, closes []float64, length int) optional.Option[float64] {
	return Last(ATR(high, low, closes, length))
}
