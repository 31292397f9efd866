// Package evaluator turns candle series and futures market data into directional
// opinions. Every evaluator is a pure function: short or degenerate input yields
// a zero-confidence Neutral opinion instead of an error.
package evaluator

import "github.com/sentinel-quant/sentinel/internal/types"

// Params holds the tunables shared by the candle-based evaluators.
type Params struct {
	EMAFast int
	EMASlow int

	RSIPeriod     int
	RSIOversold   float64
	RSIOverbought float64

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	BBPeriod int
	BBStd    float64

	StochRSIPeriod     int
	StochRSIK          int
	StochRSID          int
	StochRSIOversold   float64
	StochRSIOverbought float64

	ADXPeriod    int
	ADXThreshold float64

	VolumeMultiplier float64
	VolumeLookback   int
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{
		EMAFast:            9,
		EMASlow:            21,
		RSIPeriod:          14,
		RSIOversold:        30,
		RSIOverbought:      70,
		MACDFast:           12,
		MACDSlow:           26,
		MACDSignal:         9,
		BBPeriod:           20,
		BBStd:              2.0,
		StochRSIPeriod:     14,
		StochRSIK:          3,
		StochRSID:          3,
		StochRSIOversold:   20,
		StochRSIOverbought: 80,
		ADXPeriod:          14,
		ADXThreshold:       25,
		VolumeMultiplier:   1.5,
		VolumeLookback:     20,
	}
}

// Func is a candle-based evaluator.
type Func func(series types.Series, p Params) types.Opinion

// Primary returns the evaluators voted on the main timeframe.
func Primary() []Func {
	return []Func{
		EMACross,
		RSIMomentum,
		MACDCross,
		BollingerBounce,
		StochRSICross,
		ADXTrend,
		VolumeSpike,
	}
}

// Trend returns the subset consulted for higher-timeframe confirmation.
func Trend() []Func {
	return []Func{
		EMACross,
		MACDCross,
		ADXTrend,
	}
}

func insufficientData(name string) types.Opinion {
	return types.Neutral(name, "insufficient data")
}
