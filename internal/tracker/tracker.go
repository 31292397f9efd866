// Package tracker manages open positions and drives their exit lifecycle.
// Each tracked position moves through open, partial take-profit and closed
// states as prices cross its stop, targets or holding-time limit.
package tracker

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/types"
)

// PriceFunc resolves the current price of a symbol. The boolean reports
// whether a price is available; unavailable symbols are skipped.
type PriceFunc func(symbol string) (float64, bool)

// ExitEvent is one lifecycle transition produced by CheckExits. Position is
// a snapshot taken after the transition was applied.
type ExitEvent struct {
	Position types.TrackedPosition
	Reason   types.ExitReason
	Price    float64
	PnLPct   float64
	Terminal bool
}

// ExitTracker owns all tracked positions. At most one non-closed position
// exists per symbol. All methods are safe for concurrent use, so the scan
// loop and the exit-check loop can interleave freely.
type ExitTracker struct {
	mu        sync.Mutex
	logger    *logger.Logger
	positions map[string]*types.TrackedPosition
	history   []types.TrackedPosition

	// now is swappable in tests.
	now func() time.Time
}

// New creates an empty exit tracker.
func New(l *logger.Logger) *ExitTracker {
	return &ExitTracker{
		logger:    l,
		positions: make(map[string]*types.TrackedPosition),
		now:       time.Now,
	}
}

// Track starts tracking a position derived from the signal. An existing
// non-closed position on the same symbol is force-closed first with a
// manual exit reason and moved to history. The new position is returned.
func (t *ExitTracker) Track(sig types.Signal) types.TrackedPosition {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	if old, ok := t.positions[sig.Symbol]; ok && old.Status != types.PositionStatusClosed {
		t.logger.Info("replacing existing position",
			zap.String("symbol", sig.Symbol),
			zap.String("old_id", old.ID))
		old.Status = types.PositionStatusClosed
		old.ExitReason = types.ExitReasonManual
		old.ClosedAt = now
		t.history = append(t.history, *old)
	}

	pos := &types.TrackedPosition{
		ID:              uuid.New().String(),
		Symbol:          sig.Symbol,
		Direction:       sig.Direction,
		EntryPrice:      sig.Price,
		StopLoss:        sig.StopLoss,
		TakeProfit1:     sig.TakeProfit1,
		TakeProfit2:     sig.TakeProfit2,
		Score:           sig.Score,
		PositionSizePct: sig.PositionSizePct,
		OpenedAt:        now,
		MaxHold:         sig.ExitAfter,
		Status:          types.PositionStatusOpen,
	}
	t.positions[sig.Symbol] = pos

	t.logger.Info("tracking position",
		zap.String("symbol", pos.Symbol),
		zap.String("direction", string(pos.Direction)),
		zap.Float64("entry", pos.EntryPrice),
		zap.Float64("stop_loss", pos.StopLoss),
		zap.Float64("take_profit_1", pos.TakeProfit1),
		zap.Float64("take_profit_2", pos.TakeProfit2),
		zap.Float64("size_pct", pos.PositionSizePct),
		zap.Duration("max_hold", pos.MaxHold))

	return *pos
}

// CheckExits evaluates every non-closed position against its exit
// conditions, in fixed priority order: stop loss, partial take-profit,
// full take-profit, holding-time limit. A partial take-profit moves the
// stop to the entry price and does not terminate the position; at most
// one transition fires per position per call.
func (t *ExitTracker) CheckExits(price PriceFunc) []ExitEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	var events []ExitEvent

	for symbol, pos := range t.positions {
		if pos.Status == types.PositionStatusClosed {
			continue
		}

		current, ok := price(symbol)
		if !ok {
			t.logger.Debug("no price for tracked symbol, skipping",
				zap.String("symbol", symbol))
			continue
		}

		pnl := pos.PnLPct(current)

		if stopHit(pos, current) {
			events = append(events, t.closeLocked(pos, types.ExitReasonStopLoss, current, pnl))
			continue
		}

		if pos.Status == types.PositionStatusOpen && targetHit(pos, current, pos.TakeProfit1) {
			events = append(events, t.partialLocked(pos, current, pnl))
			continue
		}

		if targetHit(pos, current, pos.TakeProfit2) {
			events = append(events, t.closeLocked(pos, types.ExitReasonTakeProfit2, current, pnl))
			continue
		}

		if pos.Expired(t.now()) {
			events = append(events, t.closeLocked(pos, types.ExitReasonTimeExit, current, pnl))
		}
	}

	return events
}

func stopHit(pos *types.TrackedPosition, price float64) bool {
	if pos.Direction == types.DirectionShort {
		return price >= pos.StopLoss
	}
	return price <= pos.StopLoss
}

func targetHit(pos *types.TrackedPosition, price, target float64) bool {
	if pos.Direction == types.DirectionShort {
		return price <= target
	}
	return price >= target
}

// closeLocked applies a terminal transition. Caller holds t.mu.
func (t *ExitTracker) closeLocked(pos *types.TrackedPosition, reason types.ExitReason, price, pnl float64) ExitEvent {
	pos.Status = types.PositionStatusClosed
	pos.ExitReason = reason
	pos.ExitPrice = price
	pos.ClosedAt = t.now()
	t.history = append(t.history, *pos)

	t.logger.Info("position closed",
		zap.String("symbol", pos.Symbol),
		zap.String("reason", reason.String()),
		zap.Float64("exit_price", price),
		zap.Float64("pnl_pct", pnl))

	return ExitEvent{
		Position: *pos,
		Reason:   reason,
		Price:    price,
		PnLPct:   pnl,
		Terminal: true,
	}
}

// partialLocked applies the TP1 transition: the stop moves to breakeven
// and the position keeps running toward TP2. Caller holds t.mu.
func (t *ExitTracker) partialLocked(pos *types.TrackedPosition, price, pnl float64) ExitEvent {
	oldStop := pos.StopLoss
	pos.Status = types.PositionStatusPartialTaken
	pos.ExitReason = types.ExitReasonTakeProfit1
	pos.StopLoss = pos.EntryPrice

	t.logger.Info("partial take-profit hit, stop moved to breakeven",
		zap.String("symbol", pos.Symbol),
		zap.Float64("price", price),
		zap.Float64("pnl_pct", pnl),
		zap.Float64("old_stop", oldStop),
		zap.Float64("new_stop", pos.StopLoss))

	return ExitEvent{
		Position: *pos,
		Reason:   types.ExitReasonTakeProfit1,
		Price:    price,
		PnLPct:   pnl,
		Terminal: false,
	}
}

// OpenPositions returns snapshots of all non-closed positions.
func (t *ExitTracker) OpenPositions() []types.TrackedPosition {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]types.TrackedPosition, 0, len(t.positions))
	for _, pos := range t.positions {
		if pos.Status != types.PositionStatusClosed {
			out = append(out, *pos)
		}
	}
	return out
}

// OpenCount returns the number of non-closed positions.
func (t *ExitTracker) OpenCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, pos := range t.positions {
		if pos.Status != types.PositionStatusClosed {
			count++
		}
	}
	return count
}

// HasOpen reports whether the symbol has a non-closed position.
func (t *ExitTracker) HasOpen(symbol string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.positions[symbol]
	return ok && pos.Status != types.PositionStatusClosed
}

// History returns snapshots of all closed positions, oldest first.
func (t *ExitTracker) History() []types.TrackedPosition {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]types.TrackedPosition, len(t.history))
	copy(out, t.history)
	return out
}
