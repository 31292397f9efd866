package engine

import (
	"time"

	"github.com/sentinel-quant/sentinel/internal/evaluator"
)

// Config carries every knob of the fusion algorithm.
type Config struct {
	// Params configures the candle-based evaluators.
	Params evaluator.Params

	// PrimaryInterval is the main analysis timeframe.
	PrimaryInterval string
	// ConfirmInterval is the higher timeframe used for trend confirmation.
	ConfirmInterval string
	// CandleLimit is how many bars to request per series.
	CandleLimit int
	// MinBars is the minimum series length an analysis needs.
	MinBars int

	// SignalThreshold is the minimum composite score that emits a signal.
	SignalThreshold int
	// ConfirmationMultiplier scales the score when the higher timeframe agrees.
	ConfirmationMultiplier float64

	// MarketFilterEnabled gates the reference-instrument filter.
	MarketFilterEnabled bool
	// MarketFilterSymbol is the reference instrument, normally BTCUSDT.
	MarketFilterSymbol string
	// DropThresholdPct blocks Longs when the reference 1h return is at or below it.
	DropThresholdPct float64
	// PumpThresholdPct blocks Shorts when the reference 1h return is at or above it.
	PumpThresholdPct float64

	// VolumeMinRatio is the dust floor for the enhanced volume check.
	VolumeMinRatio float64
	// VolumeSpikeMultiplier marks strong volume confirmation.
	VolumeSpikeMultiplier float64

	// ATRPeriod sizes the volatility window used for levels.
	ATRPeriod int
	// SLMultiplier, TP1Multiplier and TP2Multiplier scale ATR into levels.
	SLMultiplier  float64
	TP1Multiplier float64
	TP2Multiplier float64

	// SizeModeratePct and SizeStrongPct are the two position-size tiers.
	SizeModeratePct float64
	SizeStrongPct   float64

	// ExitAfter is the maximum holding time carried on emitted signals.
	ExitAfter time.Duration
	// ScanPause is the courtesy pause between instruments during a scan.
	ScanPause time.Duration

	// PivotWindow and PivotMaxLevels shape support/resistance detection.
	PivotWindow    int
	PivotMaxLevels int
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		Params:                 evaluator.DefaultParams(),
		PrimaryInterval:        "1h",
		ConfirmInterval:        "4h",
		CandleLimit:            200,
		MinBars:                50,
		SignalThreshold:        70,
		ConfirmationMultiplier: 1.3,
		MarketFilterEnabled:    true,
		MarketFilterSymbol:     "BTCUSDT",
		DropThresholdPct:       -1.0,
		PumpThresholdPct:       1.0,
		VolumeMinRatio:         1.0,
		VolumeSpikeMultiplier:  2.5,
		ATRPeriod:              14,
		SLMultiplier:           1.5,
		TP1Multiplier:          1.5,
		TP2Multiplier:          3.0,
		SizeModeratePct:        5.0,
		SizeStrongPct:          10.0,
		ExitAfter:              4 * time.Hour,
		ScanPause:              500 * time.Millisecond,
		PivotWindow:            20,
		PivotMaxLevels:         5,
	}
}
