package executor

import (
	"context"

	"go.uber.org/zap"

	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/types"
)

// PaperExecutor records intended trades in the log without touching any
// exchange. Used when running in signal-only mode.
type PaperExecutor struct {
	logger *logger.Logger
}

// NewPaperExecutor creates a no-op executor.
func NewPaperExecutor(l *logger.Logger) *PaperExecutor {
	return &PaperExecutor{logger: l}
}

func (e *PaperExecutor) Execute(_ context.Context, sig types.Signal, notional float64) error {
	e.logger.Info("paper trade",
		zap.String("symbol", sig.Symbol),
		zap.String("direction", string(sig.Direction)),
		zap.Int("score", sig.Score),
		zap.Float64("price", sig.Price),
		zap.Float64("notional", notional),
		zap.Float64("stop_loss", sig.StopLoss),
		zap.Float64("take_profit_1", sig.TakeProfit1),
		zap.Float64("take_profit_2", sig.TakeProfit2))

	return nil
}

var _ TradeExecutor = (*PaperExecutor)(nil)
var _ TradeExecutor = (*BinanceExecutor)(nil)
