package evaluator

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameOpenInterest = "Open Interest"

// OpenInterestTrend compares the mean of the latest five open-interest
// readings against the first five. Rising OI confirms whichever way price is
// moving: new money is entering. Falling OI while price moves means covering
// or liquidations, which is noted but never traded on.
func OpenInterestTrend(oi *types.OpenInterestData, priceChangePct float64) types.Opinion {
	if oi == nil || len(oi.History) < 10 {
		return types.Neutral(nameOpenInterest, "no open interest data")
	}

	history := oi.History
	recentAvg := lo.Sum(history[len(history)-5:]) / 5
	olderAvg := lo.Sum(history[:5]) / 5
	if olderAvg == 0 {
		return types.Neutral(nameOpenInterest, "zero open interest")
	}

	changePct := (recentAvg - olderAvg) / olderAvg * 100

	if changePct > 3 {
		conf := math.Max(math.Min(changePct/10, 1.0), 0.6)
		if priceChangePct > 0 {
			return types.Opinion{
				Name:       nameOpenInterest,
				Direction:  types.DirectionLong,
				Confidence: conf,
				Rationale:  fmt.Sprintf("OI rising +%.1f%% with price up, strong bullish", changePct),
			}
		}
		if priceChangePct < 0 {
			return types.Opinion{
				Name:       nameOpenInterest,
				Direction:  types.DirectionShort,
				Confidence: conf,
				Rationale:  fmt.Sprintf("OI rising +%.1f%% with price down, strong bearish", changePct),
			}
		}
	} else if changePct < -3 {
		if priceChangePct > 0 {
			return types.Opinion{
				Name:       nameOpenInterest,
				Direction:  types.DirectionNeutral,
				Confidence: 0.3,
				Rationale:  fmt.Sprintf("OI falling %.1f%% with price up, weak rally (covering)", changePct),
			}
		}
		if priceChangePct < 0 {
			return types.Opinion{
				Name:       nameOpenInterest,
				Direction:  types.DirectionNeutral,
				Confidence: 0.3,
				Rationale:  fmt.Sprintf("OI falling %.1f%% with price down, liquidations", changePct),
			}
		}
	}

	return types.Neutral(nameOpenInterest, fmt.Sprintf("OI stable (%+.1f%%)", changePct))
}
