// Package indicator implements the series math the evaluators are built on.
// Functions operate on float64 slices aligned with the input candles; points
// that fall inside an indicator's warm-up window are NaN. Use Defined to test
// a point before acting on it.
package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Defined reports whether v carries a usable indicator value.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// Last returns the final value of the series, or None when the series is
// empty or its final point is still inside a warm-up window.
func Last(values []float64) optional.Option[float64] {
	if len(values) == 0 {
		return optional.None[float64]()
	}
	v := values[len(values)-1]
	if math.IsNaN(v) {
		return optional.None[float64]()
	}
	return optional.Some(v)
}

// ewm applies an exponentially weighted mean with the given alpha. The first
// non-NaN observation seeds the accumulator; NaN inputs produce NaN outputs
// without disturbing the accumulator. Points remain NaN until minPeriods
// observations have been absorbed.
func ewm(values []float64, alpha float64, minPeriods int) []float64 {
	out := make([]float64, len(values))
	var acc float64
	seeded := false
	count := 0
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		if seeded {
			acc = alpha*v + (1-alpha)*acc
		} else {
			acc = v
			seeded = true
		}
		count++
		if count >= minPeriods {
			out[i] = acc
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// rolling evaluates fn over a sliding window of the given size. A window that
// extends past the start of the series, or that contains a NaN, yields NaN.
func rolling(values []float64, window int, fn func(win []float64) float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = math.NaN()
		if window <= 0 || i+1 < window {
			continue
		}
		win := values[i+1-window : i+1]
		ok := true
		for _, v := range win {
			if math.IsNaN(v) {
				ok = false
				break
			}
		}
		if ok {
			out[i] = fn(win)
		}
	}
	return out
}

// SMA is the simple moving average over the given window.
func SMA(values []float64, window int) []float64 {
	return rolling(values, window, func(win []float64) float64 {
		sum := 0.0
		for _, v := range win {
			sum += v
		}
		return sum / float64(len(win))
	})
}

// RollingStd is the sample standard deviation over the given window.
func RollingStd(values []float64, window int) []float64 {
	return rolling(values, window, func(win []float64) float64 {
		if len(win) < 2 {
			return math.NaN()
		}
		mean := 0.0
		for _, v := range win {
			mean += v
		}
		mean /= float64(len(win))
		variance := 0.0
		for _, v := range win {
			d := v - mean
			variance += d * d
		}
		return math.Sqrt(variance / float64(len(win)-1))
	})
}

// RollingMin is the minimum over the given window.
func RollingMin(values []float64, window int) []float64 {
	return rolling(values, window, func(win []float64) float64 {
		m := win[0]
		for _, v := range win[1:] {
			if v < m {
				m = v
			}
		}
		return m
	})
}

// RollingMax is the maximum over the given window.
func RollingMax(values []float64, window int) []float64 {
	return rolling(values, window, func(win []float64) float64 {
		m := win[0]
		for _, v := range win[1:] {
			if v > m {
				m = v
			}
		}
		return m
	})
}
