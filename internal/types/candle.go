package types

import (
	"time"

	"github.com/sentinel-quant/sentinel/pkg/errors"
)

// Candle is a single OHLCV bar at a fixed timeframe.
type Candle struct {
	// OpenTime is the open time of the bar.
	OpenTime time.Time `json:"open_time" yaml:"open_time"`
	// Open is the opening price.
	Open float64 `json:"open" yaml:"open"`
	// High is the highest traded price of the bar.
	High float64 `json:"high" yaml:"high"`
	// Low is the lowest traded price of the bar.
	Low float64 `json:"low" yaml:"low"`
	// Close is the closing price.
	Close float64 `json:"close" yaml:"close"`
	// Volume is the traded base-asset volume of the bar.
	Volume float64 `json:"volume" yaml:"volume"`
}

// Series is an ordered candle sequence with strictly increasing open times.
// It is owned by the caller for the duration of one evaluation and never mutated.
type Series []Candle

// Validate checks ordering of the series.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].OpenTime.After(s[i-1].OpenTime) {
			return errors.Newf(errors.ErrCodeCandleDataMalformed,
				"candle %d open time %s is not after candle %d open time %s",
				i, s[i].OpenTime, i-1, s[i-1].OpenTime)
		}
	}

	return nil
}

// Closes returns the close prices of the series.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}

	return out
}

// Highs returns the high prices of the series.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.High
	}

	return out
}

// Lows returns the low prices of the series.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Low
	}

	return out
}

// Volumes returns the volumes of the series.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Volume
	}

	return out
}

// Last returns the most recent candle. The boolean is false for an empty series.
func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}

	return s[len(s)-1], true
}

// FundingData is a funding-rate snapshot for a perpetual contract.
type FundingData struct {
	// Rate is the current funding rate as a fraction (0.0001 = 0.01%).
	Rate float64 `json:"rate" yaml:"rate"`
	// MarkPrice is the mark price at snapshot time.
	MarkPrice float64 `json:"mark_price" yaml:"mark_price"`
	// IndexPrice is the index price at snapshot time.
	IndexPrice float64 `json:"index_price" yaml:"index_price"`
	// NextFundingTime is when funding is next applied.
	NextFundingTime time.Time `json:"next_funding_time" yaml:"next_funding_time"`
}

// OpenInterestData is an open-interest trend snapshot for a perpetual contract.
type OpenInterestData struct {
	// Latest is the most recent open-interest reading.
	Latest float64 `json:"latest" yaml:"latest"`
	// History holds recent readings, oldest first.
	History []float64 `json:"history" yaml:"history"`
}
