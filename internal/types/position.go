package types

import "time"

// TrackedPosition is a position under exit management. At most one
// non-closed instance exists per symbol; the exit tracker owns all mutation.
type TrackedPosition struct {
	// ID uniquely identifies this position.
	ID string `json:"id" yaml:"id"`
	// Symbol is the instrument.
	Symbol string `json:"symbol" yaml:"symbol"`
	// Direction is the trade direction.
	Direction Direction `json:"direction" yaml:"direction"`
	// EntryPrice is the reference price the position opened at.
	EntryPrice float64 `json:"entry_price" yaml:"entry_price"`
	// StopLoss is the current protective stop. It moves to EntryPrice after TP1.
	StopLoss float64 `json:"stop_loss" yaml:"stop_loss"`
	// TakeProfit1 is the partial take-profit level.
	TakeProfit1 float64 `json:"take_profit_1" yaml:"take_profit_1"`
	// TakeProfit2 is the full take-profit level.
	TakeProfit2 float64 `json:"take_profit_2" yaml:"take_profit_2"`
	// Score is the composite score the position was opened on.
	Score int `json:"score" yaml:"score"`
	// PositionSizePct is the deposit fraction allocated, in percent.
	PositionSizePct float64 `json:"position_size_pct" yaml:"position_size_pct"`
	// OpenedAt is when tracking began.
	OpenedAt time.Time `json:"opened_at" yaml:"opened_at"`
	// MaxHold is the holding time limit before a time exit.
	MaxHold time.Duration `json:"max_hold" yaml:"max_hold"`
	// Status is the lifecycle state.
	Status PositionStatus `json:"status" yaml:"status"`
	// ExitReason is set on the transition that produced it (TP1 or terminal).
	ExitReason ExitReason `json:"exit_reason,omitempty" yaml:"exit_reason,omitempty"`
	// ExitPrice is the price at the terminal transition.
	ExitPrice float64 `json:"exit_price,omitempty" yaml:"exit_price,omitempty"`
	// ClosedAt is when the terminal transition happened.
	ClosedAt time.Time `json:"closed_at,omitempty" yaml:"closed_at,omitempty"`
}

// PnLPct returns the unrealized profit in percent at the given price.
func (p *TrackedPosition) PnLPct(currentPrice float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}

	if p.Direction == DirectionShort {
		return (p.EntryPrice - currentPrice) / p.EntryPrice * 100
	}

	return (currentPrice - p.EntryPrice) / p.EntryPrice * 100
}

// Age returns the holding time at the given instant.
func (p *TrackedPosition) Age(now time.Time) time.Duration {
	return now.Sub(p.OpenedAt)
}

// Expired reports whether the holding time limit has been reached.
func (p *TrackedPosition) Expired(now time.Time) bool {
	return p.MaxHold > 0 && p.Age(now) >= p.MaxHold
}

// TradeRecord is one realized trade applied to the equity ledger.
// Records are append-only and never mutated after creation.
type TradeRecord struct {
	// ID uniquely identifies the record.
	ID string `json:"id" yaml:"id"`
	// Symbol is the instrument.
	Symbol string `json:"symbol" yaml:"symbol"`
	// Direction is the trade direction.
	Direction Direction `json:"direction" yaml:"direction"`
	// EntryPrice and ExitPrice bound the trade.
	EntryPrice float64 `json:"entry_price" yaml:"entry_price"`
	ExitPrice  float64 `json:"exit_price" yaml:"exit_price"`
	// PnLPct is the realized profit in percent of the entry price.
	PnLPct float64 `json:"pnl_pct" yaml:"pnl_pct"`
	// PnLAmount is the realized profit in account currency.
	PnLAmount float64 `json:"pnl_amount" yaml:"pnl_amount"`
	// PositionSizePct is the deposit fraction that was allocated, in percent.
	PositionSizePct float64 `json:"position_size_pct" yaml:"position_size_pct"`
	// Score is the composite score the position was opened on.
	Score int `json:"score" yaml:"score"`
	// BalanceBefore and BalanceAfter snapshot the compounding balance.
	BalanceBefore float64 `json:"balance_before" yaml:"balance_before"`
	BalanceAfter  float64 `json:"balance_after" yaml:"balance_after"`
	// ExitReason is why the position closed.
	ExitReason ExitReason `json:"exit_reason" yaml:"exit_reason"`
	// Timestamp is when the record was created.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
