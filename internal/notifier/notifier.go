// Package notifier delivers signal and exit alerts. The Telegram
// implementation posts Markdown messages to the Bot API; the log
// implementation is the fallback when no credentials are configured.
package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/tracker"
	"github.com/sentinel-quant/sentinel/internal/types"
)

// Notifier delivers alerts for scan and exit events.
type Notifier interface {
	SignalAlert(ctx context.Context, sig types.Signal) error
	ExitAlert(ctx context.Context, event tracker.ExitEvent) error
	Status(ctx context.Context, text string) error
}

// LogNotifier writes alerts to the log only.
type LogNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(l *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) SignalAlert(_ context.Context, sig types.Signal) error {
	n.logger.Info("signal alert",
		zap.String("symbol", sig.Symbol),
		zap.String("direction", string(sig.Direction)),
		zap.Int("score", sig.Score),
		zap.String("strength", sig.Strength),
		zap.Float64("price", sig.Price),
		zap.Float64("stop_loss", sig.StopLoss),
		zap.Float64("take_profit_2", sig.TakeProfit2))

	return nil
}

func (n *LogNotifier) ExitAlert(_ context.Context, event tracker.ExitEvent) error {
	n.logger.Info("exit alert",
		zap.String("symbol", event.Position.Symbol),
		zap.String("reason", event.Reason.String()),
		zap.Float64("price", event.Price),
		zap.Float64("pnl_pct", event.PnLPct),
		zap.Bool("terminal", event.Terminal))

	return nil
}

func (n *LogNotifier) Status(_ context.Context, text string) error {
	n.logger.Info("status", zap.String("text", text))

	return nil
}

var _ Notifier = (*LogNotifier)(nil)
