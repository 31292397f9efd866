// Package scheduler runs the two cooperative loops of the scanner: the
// periodic market scan and the exit check over tracked positions. The loops
// share the exit tracker and the equity ledger, which serialize internally.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sentinel-quant/sentinel/internal/config"
	"github.com/sentinel-quant/sentinel/internal/engine"
	"github.com/sentinel-quant/sentinel/internal/executor"
	"github.com/sentinel-quant/sentinel/internal/ledger"
	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/market"
	"github.com/sentinel-quant/sentinel/internal/notifier"
	"github.com/sentinel-quant/sentinel/internal/tracker"
	"github.com/sentinel-quant/sentinel/internal/types"
)

// Scheduler wires the engine, tracker, ledger, executor and notifier into
// the scan and exit-check loops.
type Scheduler struct {
	cfg      config.Config
	engine   *engine.Engine
	provider market.DataProvider
	tracker  *tracker.ExitTracker
	ledger   *ledger.Ledger
	notifier notifier.Notifier
	executor executor.TradeExecutor
	logger   *logger.Logger

	mu        sync.Mutex
	cooldowns map[string]time.Time

	// now is swappable in tests.
	now func() time.Time
}

// New creates a scheduler over the given collaborators.
func New(
	cfg config.Config,
	eng *engine.Engine,
	provider market.DataProvider,
	trk *tracker.ExitTracker,
	led *ledger.Ledger,
	notif notifier.Notifier,
	exec executor.TradeExecutor,
	l *logger.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		engine:    eng,
		provider:  provider,
		tracker:   trk,
		ledger:    led,
		notifier:  notif,
		executor:  exec,
		logger:    l,
		cooldowns: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Run announces startup and drives both loops until the context is
// cancelled. Cancellation is only observed between cycles.
func (s *Scheduler) Run(ctx context.Context) error {
	s.announceStartup(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.scanLoop(ctx) })
	g.Go(func() error { return s.exitLoop(ctx) })

	return g.Wait()
}

func (s *Scheduler) announceStartup(ctx context.Context) {
	mode := "signals only"
	if s.cfg.Trading.Enabled {
		mode = "auto-trade"
	}

	s.logger.Info("scanner starting",
		zap.String("mode", mode),
		zap.Int("pairs", len(s.cfg.Symbols)),
		zap.Int("threshold", s.cfg.Engine.SignalThreshold),
		zap.Int("leverage", s.cfg.Trading.Leverage),
		zap.Duration("scan_interval", s.cfg.ScanInterval()),
		zap.Bool("market_filter", s.cfg.Engine.MarketFilterEnabled),
		zap.Float64("balance", s.ledger.Balance()))

	text := fmt.Sprintf(
		"*Scanner started*\nPairs: %d\nMode: %s\nScan: every %s\nBalance: `%.2f`",
		len(s.cfg.Symbols), mode, s.cfg.ScanInterval(), s.ledger.Balance())
	if err := s.notifier.Status(ctx, text); err != nil {
		s.logger.Error("failed to send startup notification", zap.Error(err))
	}
}

func (s *Scheduler) scanLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.ScanInterval())
	defer ticker.Stop()

	for {
		s.runScanCycle(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runScanCycle(ctx context.Context) {
	s.logger.Info("scan cycle started",
		zap.Int("pairs", len(s.cfg.Symbols)),
		zap.Int("threshold", s.cfg.Engine.SignalThreshold),
		zap.Int("open_positions", s.tracker.OpenCount()))

	signals := s.engine.Scan(ctx, s.cfg.Symbols)
	if len(signals) == 0 {
		s.logger.Info("no signals this cycle")

		return
	}

	for _, sig := range signals {
		if err := s.notifier.SignalAlert(ctx, sig); err != nil {
			s.logger.Error("failed to send signal alert",
				zap.String("symbol", sig.Symbol), zap.Error(err))
		}

		// Execution gates look at the tracker before this signal's own
		// position is added.
		allowed, reason := s.executionAllowed(sig)

		s.tracker.Track(sig)

		if !allowed {
			s.logger.Info("skipping execution",
				zap.String("symbol", sig.Symbol), zap.String("reason", reason))

			continue
		}

		s.execute(ctx, sig)
	}
}

// executionAllowed applies the orchestration gates: the open-position cap,
// the one-position-per-symbol guard and the per-symbol cooldown.
func (s *Scheduler) executionAllowed(sig types.Signal) (bool, string) {
	if open := s.tracker.OpenCount(); open >= s.cfg.MaxOpenPositions {
		return false, fmt.Sprintf("max open positions reached (%d/%d)", open, s.cfg.MaxOpenPositions)
	}

	if s.tracker.HasOpen(sig.Symbol) {
		return false, "position already open"
	}

	s.mu.Lock()
	last, seen := s.cooldowns[sig.Symbol]
	s.mu.Unlock()

	if seen {
		if elapsed := s.now().Sub(last); elapsed < s.cfg.SignalCooldown() {
			return false, fmt.Sprintf("cooldown active (%s of %s)", elapsed.Round(time.Minute), s.cfg.SignalCooldown())
		}
	}

	return true, ""
}

func (s *Scheduler) execute(ctx context.Context, sig types.Signal) {
	notional := s.ledger.Balance() * sig.PositionSizePct / 100

	if err := s.executor.Execute(ctx, sig, notional); err != nil {
		s.logger.Error("failed to execute signal",
			zap.String("symbol", sig.Symbol), zap.Error(err))

		return
	}

	s.mu.Lock()
	s.cooldowns[sig.Symbol] = s.now()
	s.mu.Unlock()

	s.logger.Info("signal executed",
		zap.String("symbol", sig.Symbol),
		zap.String("direction", string(sig.Direction)),
		zap.Float64("notional", notional))
}

func (s *Scheduler) exitLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.ExitCheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runExitCheck(ctx)
		}
	}
}

func (s *Scheduler) runExitCheck(ctx context.Context) {
	count := s.tracker.OpenCount()
	if count == 0 {
		return
	}

	s.logger.Debug("checking open positions", zap.Int("count", count))

	events := s.tracker.CheckExits(func(symbol string) (float64, bool) {
		price, err := s.provider.CurrentPrice(ctx, symbol)
		if err != nil {
			s.logger.Warn("price unavailable during exit check",
				zap.String("symbol", symbol), zap.Error(err))

			return 0, false
		}

		return price, true
	})

	for _, event := range events {
		if err := s.notifier.ExitAlert(ctx, event); err != nil {
			s.logger.Error("failed to send exit alert",
				zap.String("symbol", event.Position.Symbol), zap.Error(err))
		}

		if !event.Terminal {
			continue
		}

		record, err := s.ledger.RecordTrade(event.Position, event.Price, event.PnLPct)
		if err != nil {
			s.logger.Error("failed to record trade",
				zap.String("symbol", event.Position.Symbol), zap.Error(err))

			continue
		}

		if err := s.notifier.Status(ctx, s.ledger.FormatTradeMessage(record)); err != nil {
			s.logger.Error("failed to send ledger update", zap.Error(err))
		}

		s.logger.Info("exit recorded",
			zap.String("symbol", event.Position.Symbol),
			zap.String("reason", event.Reason.String()),
			zap.Float64("pnl_pct", event.PnLPct),
			zap.Float64("balance", s.ledger.Balance()))
	}
}
