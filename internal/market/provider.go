// Package market provides futures market data access and support/resistance
// level detection.
package market

import (
	"context"

	"github.com/sentinel-quant/sentinel/internal/types"
)

// DataProvider supplies the market data the signal engine consumes. Candles,
// funding and open-interest reads may be cached for the duration of one scan
// cycle; ClearCache resets that cache at cycle start.
type DataProvider interface {
	// Candles returns up to limit most recent bars at the given interval.
	Candles(ctx context.Context, symbol, interval string, limit int) (types.Series, error)
	// CurrentPrice returns the latest traded price.
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
	// FundingRate returns the current funding snapshot for a perpetual.
	FundingRate(ctx context.Context, symbol string) (*types.FundingData, error)
	// OpenInterestTrend returns the latest open interest plus recent history.
	OpenInterestTrend(ctx context.Context, symbol string) (*types.OpenInterestData, error)
	// ClearCache drops any per-cycle cached data.
	ClearCache()
}
