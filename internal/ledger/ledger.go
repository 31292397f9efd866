// Package ledger tracks a compounding equity challenge. Every realized
// trade applies its PnL to the allocated fraction of the current balance,
// and the full state survives restarts through a YAML snapshot.
package ledger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/types"
)

// DefaultStartingBalance is the balance a fresh ledger starts from.
const DefaultStartingBalance = 46.0

// Milestones are the balance targets reported in status summaries.
var Milestones = []float64{100, 250, 500, 1000, 2500, 5000, 10000}

const progressBarWidth = 15

// Ledger is the compounding equity ledger. All methods are safe for
// concurrent use. Mutations persist synchronously to the snapshot path.
type Ledger struct {
	mu     sync.Mutex
	logger *logger.Logger
	path   string

	startingBalance decimal.Decimal
	currentBalance  decimal.Decimal
	startedAt       time.Time
	trades          []types.TradeRecord

	// now is swappable in tests.
	now func() time.Time
}

// LoadOrNew opens the ledger at path, restoring a previous snapshot when
// one exists and otherwise starting fresh at startingBalance.
func LoadOrNew(path string, startingBalance float64, l *logger.Logger) (*Ledger, error) {
	led := &Ledger{
		logger:          l,
		path:            path,
		startingBalance: decimal.NewFromFloat(startingBalance),
		currentBalance:  decimal.NewFromFloat(startingBalance),
		startedAt:       time.Now().UTC(),
		trades:          []types.TradeRecord{},
		now:             time.Now,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		l.Info("starting fresh equity ledger",
			zap.String("path", path),
			zap.Float64("balance", startingBalance))
		if err := led.persistLocked(); err != nil {
			return nil, err
		}
		return led, nil
	}

	snapshot, err := types.ReadLedgerSnapshot(path)
	if err != nil {
		return nil, err
	}

	led.startingBalance = decimal.NewFromFloat(snapshot.StartingBalance)
	led.currentBalance = decimal.NewFromFloat(snapshot.CurrentBalance)
	led.startedAt = snapshot.StartedAt
	led.trades = snapshot.Trades

	l.Info("equity ledger restored",
		zap.String("path", path),
		zap.Float64("balance", snapshot.CurrentBalance),
		zap.Int("trades", len(snapshot.Trades)))

	return led, nil
}

func (l *Ledger) persistLocked() error {
	return types.WriteLedgerSnapshot(l.path, types.LedgerSnapshot{
		StartingBalance: l.startingBalance.InexactFloat64(),
		CurrentBalance:  l.currentBalance.InexactFloat64(),
		StartedAt:       l.startedAt,
		Trades:          l.trades,
	})
}

// RecordTrade applies a realized trade to the balance and appends it to
// the history. The PnL amount is pnlPct of the notional, which is
// PositionSizePct of the balance at the time of the trade.
func (l *Ledger) RecordTrade(pos types.TrackedPosition, exitPrice, pnlPct float64) (types.TradeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := l.currentBalance

	hundred := decimal.NewFromInt(100)
	notional := before.Mul(decimal.NewFromFloat(pos.PositionSizePct)).Div(hundred)
	pnl := notional.Mul(decimal.NewFromFloat(pnlPct)).Div(hundred)

	l.currentBalance = before.Add(pnl)

	record := types.TradeRecord{
		ID:              uuid.New().String(),
		Symbol:          pos.Symbol,
		Direction:       pos.Direction,
		EntryPrice:      pos.EntryPrice,
		ExitPrice:       exitPrice,
		PnLPct:          pnlPct,
		PnLAmount:       pnl.InexactFloat64(),
		PositionSizePct: pos.PositionSizePct,
		Score:           pos.Score,
		BalanceBefore:   before.InexactFloat64(),
		BalanceAfter:    l.currentBalance.InexactFloat64(),
		ExitReason:      pos.ExitReason,
		Timestamp:       l.now().UTC(),
	}
	l.trades = append(l.trades, record)

	if err := l.persistLocked(); err != nil {
		return types.TradeRecord{}, err
	}

	l.logger.Info("trade recorded",
		zap.String("symbol", record.Symbol),
		zap.String("direction", string(record.Direction)),
		zap.Float64("pnl_amount", record.PnLAmount),
		zap.Float64("pnl_pct", record.PnLPct),
		zap.Float64("balance_before", record.BalanceBefore),
		zap.Float64("balance_after", record.BalanceAfter))

	return record, nil
}

// Reset discards the history and restarts the ledger at newBalance.
func (l *Ledger) Reset(newBalance float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.startingBalance = decimal.NewFromFloat(newBalance)
	l.currentBalance = decimal.NewFromFloat(newBalance)
	l.startedAt = l.now().UTC()
	l.trades = []types.TradeRecord{}

	l.logger.Info("equity ledger reset", zap.Float64("balance", newBalance))

	return l.persistLocked()
}

// Balance returns the current compounding balance.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentBalance.InexactFloat64()
}

// StartingBalance returns the balance the challenge started from.
func (l *Ledger) StartingBalance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.startingBalance.InexactFloat64()
}

// Trades returns a copy of the trade history, oldest first.
func (l *Ledger) Trades() []types.TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.TradeRecord, len(l.trades))
	copy(out, l.trades)
	return out
}

// Stats summarizes ledger performance.
type Stats struct {
	StartingBalance float64
	CurrentBalance  float64
	TotalPnLAmount  float64
	TotalPnLPct     float64
	TradeCount      int
	Wins            int
	Losses          int
	WinratePct      float64
	MaxBalance      float64
	DrawdownPct     float64
	Best            *types.TradeRecord
	Worst           *types.TradeRecord
	Days            int
}

// Stats computes the current performance summary. A win is any trade with
// a positive PnL amount; drawdown measures the current balance against the
// highest balance ever reached.
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := l.startingBalance.InexactFloat64()
	current := l.currentBalance.InexactFloat64()

	stats := Stats{
		StartingBalance: start,
		CurrentBalance:  current,
		TotalPnLAmount:  current - start,
		TradeCount:      len(l.trades),
		MaxBalance:      start,
		Days:            int(l.now().UTC().Sub(l.startedAt).Hours() / 24),
	}
	if start != 0 {
		stats.TotalPnLPct = (current - start) / start * 100
	}

	for i := range l.trades {
		t := &l.trades[i]
		if t.PnLAmount > 0 {
			stats.Wins++
		} else {
			stats.Losses++
		}
		if t.BalanceAfter > stats.MaxBalance {
			stats.MaxBalance = t.BalanceAfter
		}
		if stats.Best == nil || t.PnLAmount > stats.Best.PnLAmount {
			stats.Best = t
		}
		if stats.Worst == nil || t.PnLAmount < stats.Worst.PnLAmount {
			stats.Worst = t
		}
	}

	if stats.TradeCount > 0 {
		stats.WinratePct = float64(stats.Wins) / float64(stats.TradeCount) * 100
	}
	if stats.MaxBalance != 0 {
		stats.DrawdownPct = (current - stats.MaxBalance) / stats.MaxBalance * 100
	}

	return stats
}

// NextMilestone returns the first milestone above the given balance, or
// the last milestone when all are passed.
func NextMilestone(balance float64) float64 {
	target, ok := lo.Find(Milestones, func(m float64) bool { return m > balance })
	if !ok {
		return Milestones[len(Milestones)-1]
	}
	return target
}

// AchievedMilestones returns the milestones at or below maxBalance.
func AchievedMilestones(maxBalance float64) []float64 {
	return lo.Filter(Milestones, func(m float64, _ int) bool { return maxBalance >= m })
}

func progressBar(current, target float64) string {
	if target <= 0 {
		return strings.Repeat(".", progressBarWidth)
	}
	pct := current / target
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}
	filled := int(progressBarWidth * pct)
	return strings.Repeat("#", filled) + strings.Repeat(".", progressBarWidth-filled)
}

// FormatTradeMessage formats a recorded trade as a challenge update.
func (l *Ledger) FormatTradeMessage(record types.TradeRecord) string {
	stats := l.Stats()

	outcome := "WIN"
	if record.PnLAmount <= 0 {
		outcome = "LOSS"
	}

	target := NextMilestone(stats.CurrentBalance)
	bar := progressBar(stats.CurrentBalance, target)

	var b strings.Builder
	fmt.Fprintf(&b, "Challenge update\n")
	fmt.Fprintf(&b, "%s %s %s\n", outcome, record.Symbol, record.Direction)
	fmt.Fprintf(&b, "PnL: %+.2f%% (%+.2f USDT)\n", record.PnLPct, record.PnLAmount)
	fmt.Fprintf(&b, "Exit: %s\n", record.ExitReason.String())
	fmt.Fprintf(&b, "Balance: %.2f -> %.2f\n", record.BalanceBefore, record.BalanceAfter)
	fmt.Fprintf(&b, "Total growth: %+.1f%%\n", stats.TotalPnLPct)
	fmt.Fprintf(&b, "Target %.0f: [%s] %.0f%%", target, bar, stats.CurrentBalance/target*100)
	return b.String()
}

// FormatStatus formats the full challenge status.
func (l *Ledger) FormatStatus() string {
	stats := l.Stats()

	target := NextMilestone(stats.CurrentBalance)
	bar := progressBar(stats.CurrentBalance, target)
	achieved := AchievedMilestones(stats.MaxBalance)

	var b strings.Builder
	fmt.Fprintf(&b, "Challenge status\n")
	fmt.Fprintf(&b, "Balance: %.2f (started at %.2f)\n", stats.CurrentBalance, stats.StartingBalance)
	fmt.Fprintf(&b, "Growth: %+.1f%% (%+.2f USDT)\n", stats.TotalPnLPct, stats.TotalPnLAmount)
	fmt.Fprintf(&b, "Days: %d\n", stats.Days)
	fmt.Fprintf(&b, "Trades: %d | Wins: %d | Losses: %d | Winrate: %.0f%%\n",
		stats.TradeCount, stats.Wins, stats.Losses, stats.WinratePct)
	fmt.Fprintf(&b, "Max balance: %.2f | Drawdown: %.1f%%\n", stats.MaxBalance, stats.DrawdownPct)
	if stats.Best != nil {
		fmt.Fprintf(&b, "Best: %s %+.2f USDT\n", stats.Best.Symbol, stats.Best.PnLAmount)
	}
	if stats.Worst != nil {
		fmt.Fprintf(&b, "Worst: %s %+.2f USDT\n", stats.Worst.Symbol, stats.Worst.PnLAmount)
	}
	fmt.Fprintf(&b, "Next target %.0f: [%s] %.0f%%", target, bar, stats.CurrentBalance/target*100)
	if len(achieved) > 0 {
		labels := lo.Map(achieved, func(m float64, _ int) string { return fmt.Sprintf("%.0f", m) })
		fmt.Fprintf(&b, "\nMilestones reached: %s", strings.Join(labels, ", "))
	}

	recent := l.Trades()
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	if len(recent) > 0 {
		fmt.Fprintf(&b, "\nRecent trades:")
		for _, t := range recent {
			fmt.Fprintf(&b, "\n  %s %s %+.2f USDT -> %.2f", t.Symbol, t.Direction, t.PnLAmount, t.BalanceAfter)
		}
	}
	return b.String()
}
