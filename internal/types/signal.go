package types

import "time"

// Opinion is the directional verdict of a single evaluator.
type Opinion struct {
	// Name identifies the evaluator that produced the opinion.
	Name string `json:"name" yaml:"name"`
	// Direction is the directional call.
	Direction Direction `json:"direction" yaml:"direction"`
	// Confidence is in [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`
	// Rationale is a human-readable explanation of the call.
	Rationale string `json:"rationale" yaml:"rationale"`
}

// Neutral returns a zero-confidence neutral opinion with the given rationale.
func Neutral(name, rationale string) Opinion {
	return Opinion{
		Name:       name,
		Direction:  DirectionNeutral,
		Confidence: 0,
		Rationale:  rationale,
	}
}

// Strength labels for the composite score bands.
const (
	StrengthVeryStrong = "Very Strong"
	StrengthStrong     = "Strong"
	StrengthModerate   = "Moderate"
)

// StrengthLabel maps a composite score to its strength band.
func StrengthLabel(score int) string {
	switch {
	case score >= 90:
		return StrengthVeryStrong
	case score >= 80:
		return StrengthStrong
	default:
		return StrengthModerate
	}
}

// PivotLevel is a clustered support or resistance zone.
type PivotLevel struct {
	// Price is the average price of the cluster.
	Price float64 `json:"price" yaml:"price"`
	// Touches is how many pivot extrema formed the cluster.
	Touches int `json:"touches" yaml:"touches"`
}

// PivotLevels is the support/resistance snapshot around the current price.
type PivotLevels struct {
	// Supports are clusters below the current price, strongest first.
	Supports []PivotLevel `json:"supports" yaml:"supports"`
	// Resistances are clusters above the current price, strongest first.
	Resistances []PivotLevel `json:"resistances" yaml:"resistances"`
	// CurrentPrice is the close the snapshot was taken against.
	CurrentPrice float64 `json:"current_price" yaml:"current_price"`
}

// Signal is a finished, scored trading signal. It is created once per
// qualifying evaluation and never mutated afterwards.
type Signal struct {
	// Symbol is the instrument the signal applies to.
	Symbol string `json:"symbol" yaml:"symbol"`
	// Direction is the consensus direction.
	Direction Direction `json:"direction" yaml:"direction"`
	// Score is the composite confidence score in [0, 100].
	Score int `json:"score" yaml:"score"`
	// Strength is the label of the score band.
	Strength string `json:"strength" yaml:"strength"`
	// Price is the reference price (latest close) the levels derive from.
	Price float64 `json:"price" yaml:"price"`
	// EntryLow and EntryHigh bound the suggested entry band.
	EntryLow  float64 `json:"entry_low" yaml:"entry_low"`
	EntryHigh float64 `json:"entry_high" yaml:"entry_high"`
	// StopLoss is the protective stop level.
	StopLoss float64 `json:"stop_loss" yaml:"stop_loss"`
	// TakeProfit1 is the partial take-profit level.
	TakeProfit1 float64 `json:"take_profit_1" yaml:"take_profit_1"`
	// TakeProfit2 is the full take-profit level.
	TakeProfit2 float64 `json:"take_profit_2" yaml:"take_profit_2"`
	// RiskReward is |TP2-price| / |price-stop|, 0 when the stop distance is zero.
	RiskReward float64 `json:"risk_reward" yaml:"risk_reward"`
	// PositionSizePct is the deposit fraction to allocate, in percent.
	PositionSizePct float64 `json:"position_size_pct" yaml:"position_size_pct"`
	// Primary holds the winning primary-timeframe opinions.
	Primary []Opinion `json:"primary" yaml:"primary"`
	// Extra holds the auxiliary opinions (funding, open interest, S/R).
	Extra []Opinion `json:"extra" yaml:"extra"`
	// ConfirmationAligned reports whether the confirmation timeframe agreed.
	ConfirmationAligned bool `json:"confirmation_aligned" yaml:"confirmation_aligned"`
	// ConfirmationDetails describes the confirmation outcome.
	ConfirmationDetails string `json:"confirmation_details" yaml:"confirmation_details"`
	// VolumeQuality is the label of the enhanced volume check.
	VolumeQuality string `json:"volume_quality" yaml:"volume_quality"`
	// MarketFilterNote describes the market-wide filter state during the scan.
	MarketFilterNote string `json:"market_filter_note" yaml:"market_filter_note"`
	// Levels is the support/resistance snapshot used for the S/R opinion.
	Levels *PivotLevels `json:"levels,omitempty" yaml:"levels,omitempty"`
	// ExitAfter is the maximum holding time before a time exit.
	ExitAfter time.Duration `json:"exit_after" yaml:"exit_after"`
	// CreatedAt is when the signal was produced.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
