package types

// Direction is the directional opinion of an evaluator or signal.
type Direction string

const (
	// DirectionLong indicates a bullish opinion.
	DirectionLong Direction = "LONG"
	// DirectionShort indicates a bearish opinion.
	DirectionShort Direction = "SHORT"
	// DirectionNeutral indicates no directional opinion.
	DirectionNeutral Direction = "NEUTRAL"
)

// Opposite returns the opposing trading direction. Neutral has no opposite
// and is returned unchanged.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionLong:
		return DirectionShort
	case DirectionShort:
		return DirectionLong
	case DirectionNeutral:
		return DirectionNeutral
	}

	return DirectionNeutral
}

// PositionStatus is the lifecycle state of a tracked position.
type PositionStatus string

const (
	// PositionStatusOpen indicates the position is live with its original stop.
	PositionStatusOpen PositionStatus = "open"
	// PositionStatusPartialTaken indicates TP1 fired and the stop sits at breakeven.
	PositionStatusPartialTaken PositionStatus = "partial_taken"
	// PositionStatusClosed is the terminal state.
	PositionStatusClosed PositionStatus = "closed"
)

// ExitReason describes why a tracked position left the live set or took partial profit.
type ExitReason string

const (
	ExitReasonStopLoss    ExitReason = "stop_loss"
	ExitReasonTakeProfit1 ExitReason = "take_profit_1"
	ExitReasonTakeProfit2 ExitReason = "take_profit_2"
	ExitReasonTimeExit    ExitReason = "time_exit"
	ExitReasonManual      ExitReason = "manual"
)

// Terminal reports whether the reason closes the position. TakeProfit1 is the
// only non-terminal reason: it takes partial profit and keeps the rest running.
func (r ExitReason) Terminal() bool {
	switch r {
	case ExitReasonStopLoss, ExitReasonTakeProfit2, ExitReasonTimeExit, ExitReasonManual:
		return true
	case ExitReasonTakeProfit1:
		return false
	}

	return false
}

// String returns a human-readable label for notifications.
func (r ExitReason) String() string {
	switch r {
	case ExitReasonStopLoss:
		return "STOP LOSS"
	case ExitReasonTakeProfit1:
		return "TAKE PROFIT 1 (partial)"
	case ExitReasonTakeProfit2:
		return "TAKE PROFIT 2 (full)"
	case ExitReasonTimeExit:
		return "TIME EXIT"
	case ExitReasonManual:
		return "MANUAL"
	}

	return string(r)
}
