package evaluator

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameSupportResistance = "S/R Levels"

// SupportResistance judges a proposed direction against the nearest pivot
// levels. A strong level within one ATR against the trade produces an
// opposing opinion; a level within two ATR supporting the trade produces a
// weaker confirming one. The conflict window is deliberately tighter than the
// confirmation window.
func SupportResistance(levels *types.PivotLevels, direction types.Direction, atr float64) types.Opinion {
	if levels == nil {
		return types.Neutral(nameSupportResistance, "no level data")
	}

	price := levels.CurrentPrice
	proximity := atr

	if len(levels.Resistances) > 0 {
		nearest := lo.MinBy(levels.Resistances, func(a, b types.PivotLevel) bool {
			return a.Price-price < b.Price-price
		})
		dist := nearest.Price - price
		if direction == types.DirectionLong && dist < proximity {
			return types.Opinion{
				Name:       nameSupportResistance,
				Direction:  types.DirectionShort,
				Confidence: math.Min(float64(nearest.Touches)/3, 0.8),
				Rationale: fmt.Sprintf("resistance at %.2f (%d touches) within %.2f",
					nearest.Price, nearest.Touches, dist),
			}
		}
	}

	if len(levels.Supports) > 0 {
		nearest := lo.MaxBy(levels.Supports, func(a, b types.PivotLevel) bool {
			return a.Price > b.Price
		})
		dist := price - nearest.Price
		if direction == types.DirectionShort && dist < proximity {
			return types.Opinion{
				Name:       nameSupportResistance,
				Direction:  types.DirectionLong,
				Confidence: math.Min(float64(nearest.Touches)/3, 0.8),
				Rationale: fmt.Sprintf("support at %.2f (%d touches) within %.2f",
					nearest.Price, nearest.Touches, dist),
			}
		}
	}

	if direction == types.DirectionLong && len(levels.Supports) > 0 {
		nearest := lo.MaxBy(levels.Supports, func(a, b types.PivotLevel) bool {
			return a.Price > b.Price
		})
		if price-nearest.Price < proximity*2 {
			return types.Opinion{
				Name:       nameSupportResistance,
				Direction:  types.DirectionLong,
				Confidence: math.Min(float64(nearest.Touches)/4, 0.6),
				Rationale: fmt.Sprintf("near support %.2f (%dx), bounce zone",
					nearest.Price, nearest.Touches),
			}
		}
	}

	if direction == types.DirectionShort && len(levels.Resistances) > 0 {
		nearest := lo.MinBy(levels.Resistances, func(a, b types.PivotLevel) bool {
			return a.Price-price < b.Price-price
		})
		if nearest.Price-price < proximity*2 {
			return types.Opinion{
				Name:       nameSupportResistance,
				Direction:  types.DirectionShort,
				Confidence: math.Min(float64(nearest.Touches)/4, 0.6),
				Rationale: fmt.Sprintf("near resistance %.2f (%dx), rejection zone",
					nearest.Price, nearest.Touches),
			}
		}
	}

	return types.Neutral(nameSupportResistance, "price away from key levels")
}
