// Package engine fuses evaluator opinions across two timeframes into scored
// trading signals.
package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/sentinel-quant/sentinel/internal/evaluator"
	"github.com/sentinel-quant/sentinel/internal/indicator"
	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/market"
	"github.com/sentinel-quant/sentinel/internal/types"
)

// Score multipliers for partial and failed higher-timeframe confirmation.
const (
	partialConfirmMultiplier = 1.1
	againstConfirmMultiplier = 0.7
)

// Auxiliary score weights: aligned bonus / opposed penalty per opinion.
const (
	fundingAlignedWeight = 8
	fundingOpposedWeight = 5
	oiAlignedWeight      = 10
	oiOpposedWeight      = 5
	srAlignedWeight      = 12
	srOpposedWeight      = 15
)

// Engine evaluates instruments and produces scored signals. It is stateless
// per instrument; the only cross-instrument state is the market-filter return
// cached for the duration of one scan cycle.
type Engine struct {
	cfg      Config
	provider market.DataProvider
	logger   *logger.Logger

	marketChange optional.Option[float64]
	marketNote   string
}

// New builds an Engine.
func New(cfg Config, provider market.DataProvider, l *logger.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		provider:   provider,
		logger:     l,
		marketNote: "market filter not evaluated",
	}
}

// RefreshMarketFilter recomputes the reference instrument's last 1-bar return
// on the primary timeframe. Call once at the start of each scan cycle. A
// fetch failure leaves the filter open rather than blocking the whole scan.
func (e *Engine) RefreshMarketFilter(ctx context.Context) string {
	e.marketChange = optional.None[float64]()

	if !e.cfg.MarketFilterEnabled {
		e.marketNote = "market filter disabled"
		return e.marketNote
	}

	series, err := e.provider.Candles(ctx, e.cfg.MarketFilterSymbol, e.cfg.PrimaryInterval, e.cfg.CandleLimit)
	if err != nil || len(series) < 2 {
		e.logger.Warn("market filter reference data unavailable",
			zap.String("symbol", e.cfg.MarketFilterSymbol), zap.Error(err))
		e.marketNote = fmt.Sprintf("%s data unavailable", e.cfg.MarketFilterSymbol)
		return e.marketNote
	}

	now := series[len(series)-1].Close
	before := series[len(series)-2].Close
	change := (now - before) / before * 100
	e.marketChange = optional.Some(change)

	note := fmt.Sprintf("%s 1h: %+.2f%%", e.cfg.MarketFilterSymbol, change)
	switch {
	case change <= e.cfg.DropThresholdPct:
		note += " (longs blocked)"
	case change >= e.cfg.PumpThresholdPct:
		note += " (shorts blocked)"
	default:
		note += " (normal)"
	}
	e.marketNote = note

	return note
}

// blockedByMarketFilter reports whether the cached reference return vetoes
// the given direction.
func (e *Engine) blockedByMarketFilter(direction types.Direction) bool {
	change, err := e.marketChange.Take()
	if err != nil {
		return false
	}
	if direction == types.DirectionLong && change <= e.cfg.DropThresholdPct {
		return true
	}
	if direction == types.DirectionShort && change >= e.cfg.PumpThresholdPct {
		return true
	}

	return false
}

// volumeQuality grades the latest bar's volume against the 20-bar average
// and returns a label plus a signed score adjustment.
func (e *Engine) volumeQuality(series types.Series) (string, float64) {
	lookback := e.cfg.Params.VolumeLookback
	if len(series) < lookback {
		return "insufficient volume data", 0
	}

	volumes := series.Volumes()
	window := volumes[len(volumes)-lookback:]
	avg := lo.Sum(window) / float64(len(window))
	if avg == 0 {
		return "zero volume", 0
	}

	ratio := volumes[len(volumes)-1] / avg
	switch {
	case ratio < e.cfg.VolumeMinRatio:
		return fmt.Sprintf("dust volume (%.1fx avg)", ratio), -10
	case ratio >= e.cfg.VolumeSpikeMultiplier:
		return fmt.Sprintf("volume spike (%.1fx avg)", ratio), 8
	case ratio >= e.cfg.Params.VolumeMultiplier:
		return fmt.Sprintf("above average volume (%.1fx avg)", ratio), 5
	case ratio >= 1.0:
		return fmt.Sprintf("normal volume (%.1fx avg)", ratio), 0
	default:
		return fmt.Sprintf("weak volume (%.1fx avg)", ratio), -5
	}
}

// Analyze evaluates one instrument. It returns None when the instrument does
// not qualify this cycle; errors are reserved for data-fetch failures on the
// primary series.
func (e *Engine) Analyze(ctx context.Context, symbol string) (optional.Option[types.Signal], error) {
	none := optional.None[types.Signal]()

	primary, err := e.provider.Candles(ctx, symbol, e.cfg.PrimaryInterval, e.cfg.CandleLimit)
	if err != nil {
		return none, err
	}
	if len(primary) < e.cfg.MinBars {
		e.logger.Warn("insufficient primary data",
			zap.String("symbol", symbol), zap.Int("bars", len(primary)))
		return none, nil
	}

	opinions := lo.Map(evaluator.Primary(), func(fn evaluator.Func, _ int) types.Opinion {
		return fn(primary, e.cfg.Params)
	})

	longVotes := lo.Filter(opinions, func(o types.Opinion, _ int) bool {
		return o.Direction == types.DirectionLong
	})
	shortVotes := lo.Filter(opinions, func(o types.Opinion, _ int) bool {
		return o.Direction == types.DirectionShort
	})

	var direction types.Direction
	var winning []types.Opinion
	switch {
	case len(longVotes) > len(shortVotes) && len(longVotes) >= 2:
		direction = types.DirectionLong
		winning = longVotes
	case len(shortVotes) > len(longVotes) && len(shortVotes) >= 2:
		direction = types.DirectionShort
		winning = shortVotes
	default:
		e.logger.Debug("no consensus",
			zap.String("symbol", symbol),
			zap.Int("long", len(longVotes)),
			zap.Int("short", len(shortVotes)))
		return none, nil
	}

	if e.blockedByMarketFilter(direction) {
		e.logger.Info("direction blocked by market filter",
			zap.String("symbol", symbol),
			zap.String("direction", string(direction)),
			zap.String("filter", e.marketNote))
		return none, nil
	}

	volumeLabel, volumeBonus := e.volumeQuality(primary)

	agreement := float64(len(winning)) / float64(len(opinions))
	avgConfidence := lo.SumBy(winning, func(o types.Opinion) float64 {
		return o.Confidence
	}) / float64(len(winning))
	score := agreement*avgConfidence*100 + volumeBonus

	aligned, details, multiplier := e.confirmTrend(ctx, symbol, direction)
	score *= multiplier

	closes := primary.Closes()
	currentPrice := closes[len(closes)-1]

	atr := indicator.ATRLast(primary.Highs(), primary.Lows(), closes, e.cfg.ATRPeriod).TakeOr(0)
	if atr == 0 {
		atr = currentPrice * 0.01
	}

	var extra []types.Opinion

	funding, err := e.provider.FundingRate(ctx, symbol)
	if err != nil {
		e.logger.Warn("funding rate unavailable", zap.String("symbol", symbol), zap.Error(err))
	}
	fundingOp := evaluator.FundingRate(funding)
	extra = append(extra, fundingOp)
	score += auxAdjustment(fundingOp, direction, fundingAlignedWeight, fundingOpposedWeight)

	oi, err := e.provider.OpenInterestTrend(ctx, symbol)
	if err != nil {
		e.logger.Warn("open interest unavailable", zap.String("symbol", symbol), zap.Error(err))
	}
	priceChangePct := 0.0
	if len(closes) >= 10 {
		old := closes[len(closes)-10]
		priceChangePct = (currentPrice - old) / old * 100
	}
	oiOp := evaluator.OpenInterestTrend(oi, priceChangePct)
	extra = append(extra, oiOp)
	score += auxAdjustment(oiOp, direction, oiAlignedWeight, oiOpposedWeight)

	levels := market.FindPivotLevels(primary, e.cfg.PivotWindow, e.cfg.PivotMaxLevels)
	srOp := evaluator.SupportResistance(levels, direction, atr)
	extra = append(extra, srOp)
	score += auxAdjustment(srOp, direction, srAlignedWeight, srOpposedWeight)

	finalScore := int(math.Max(0, math.Min(score, 100)))
	if finalScore < e.cfg.SignalThreshold {
		e.logger.Debug("score below threshold",
			zap.String("symbol", symbol), zap.Int("score", finalScore))
		return none, nil
	}

	sizePct := e.cfg.SizeModeratePct
	if finalScore >= 90 {
		sizePct = e.cfg.SizeStrongPct
	}

	var entryLow, entryHigh, stopLoss, tp1, tp2 float64
	if direction == types.DirectionLong {
		entryLow = currentPrice - atr*0.3
		entryHigh = currentPrice + atr*0.1
		stopLoss = currentPrice - atr*e.cfg.SLMultiplier
		tp1 = currentPrice + atr*e.cfg.TP1Multiplier
		tp2 = currentPrice + atr*e.cfg.TP2Multiplier
	} else {
		entryLow = currentPrice - atr*0.1
		entryHigh = currentPrice + atr*0.3
		stopLoss = currentPrice + atr*e.cfg.SLMultiplier
		tp1 = currentPrice - atr*e.cfg.TP1Multiplier
		tp2 = currentPrice - atr*e.cfg.TP2Multiplier
	}

	risk := math.Abs(currentPrice - stopLoss)
	riskReward := 0.0
	if risk > 0 {
		riskReward = math.Abs(tp2-currentPrice) / risk
	}

	return optional.Some(types.Signal{
		Symbol:              symbol,
		Direction:           direction,
		Score:               finalScore,
		Strength:            types.StrengthLabel(finalScore),
		Price:               currentPrice,
		EntryLow:            entryLow,
		EntryHigh:           entryHigh,
		StopLoss:            stopLoss,
		TakeProfit1:         tp1,
		TakeProfit2:         tp2,
		RiskReward:          riskReward,
		PositionSizePct:     sizePct,
		Primary:             winning,
		Extra:               extra,
		ConfirmationAligned: aligned,
		ConfirmationDetails: details,
		VolumeQuality:       volumeLabel,
		MarketFilterNote:    e.marketNote,
		Levels:              levels,
		ExitAfter:           e.cfg.ExitAfter,
		CreatedAt:           time.Now().UTC(),
	}), nil
}

// confirmTrend reruns the trend evaluators on the confirmation timeframe and
// maps the agreement count to a score multiplier.
func (e *Engine) confirmTrend(ctx context.Context, symbol string, direction types.Direction) (bool, string, float64) {
	confirm, err := e.provider.Candles(ctx, symbol, e.cfg.ConfirmInterval, e.cfg.CandleLimit)
	if err != nil || len(confirm) < e.cfg.MinBars {
		return false, "no confirmation data", 1.0
	}

	trend := evaluator.Trend()
	agreeing := lo.CountBy(trend, func(fn evaluator.Func) bool {
		return fn(confirm, e.cfg.Params).Direction == direction
	})

	switch {
	case agreeing >= 2:
		return true,
			fmt.Sprintf("%s trend confirmed (%d/%d aligned)", e.cfg.ConfirmInterval, agreeing, len(trend)),
			e.cfg.ConfirmationMultiplier
	case agreeing == 1:
		return false,
			fmt.Sprintf("%s trend partially aligned (1/%d)", e.cfg.ConfirmInterval, len(trend)),
			partialConfirmMultiplier
	default:
		return false,
			fmt.Sprintf("%s trend against signal", e.cfg.ConfirmInterval),
			againstConfirmMultiplier
	}
}

func auxAdjustment(op types.Opinion, direction types.Direction, alignedWeight, opposedWeight float64) float64 {
	switch {
	case op.Direction == direction:
		return op.Confidence * alignedWeight
	case op.Direction != types.DirectionNeutral:
		return -op.Confidence * opposedWeight
	default:
		return 0
	}
}

// Scan evaluates the whole universe. Per-instrument failures are logged and
// skipped; results come back sorted by descending score.
func (e *Engine) Scan(ctx context.Context, symbols []string) []types.Signal {
	e.provider.ClearCache()
	note := e.RefreshMarketFilter(ctx)
	e.logger.Info("scan cycle started", zap.String("market", note), zap.Int("symbols", len(symbols)))

	var signals []types.Signal
	for i, symbol := range symbols {
		sig, err := e.Analyze(ctx, symbol)
		if err != nil {
			e.logger.Error("analysis failed", zap.String("symbol", symbol), zap.Error(err))
		} else if s, err := sig.Take(); err == nil {
			signals = append(signals, s)
			e.logger.Info("signal produced",
				zap.String("symbol", s.Symbol),
				zap.String("direction", string(s.Direction)),
				zap.Int("score", s.Score),
				zap.String("strength", s.Strength),
				zap.Float64("size_pct", s.PositionSizePct))
		}

		if i < len(symbols)-1 && e.cfg.ScanPause > 0 {
			time.Sleep(e.cfg.ScanPause)
		}
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Score > signals[j].Score
	})

	return signals
}
