// Package executor turns qualified signals into orders. The live
// implementation talks to the Binance USD-M futures API; the paper
// implementation only logs, for signal-only operation.
package executor

import (
	"context"

	"github.com/sentinel-quant/sentinel/internal/types"
)

// TradeExecutor places the orders for a signal. The notional is the margin
// allocated to the trade in account currency, already sized by the caller.
type TradeExecutor interface {
	Execute(ctx context.Context, sig types.Signal, notional float64) error
}
