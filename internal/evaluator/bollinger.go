package evaluator

import (
	"math"

	"github.com/sentinel-quant/sentinel/internal/indicator"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameBollinger = "Bollinger Bands"

// BollingerBounce signals mean-reversion off the outer bands. A close that
// re-enters the bands after touching one is a bounce with a 0.6 confidence
// floor; a close still outside a band is a softer extreme-zone opinion.
func BollingerBounce(series types.Series, p Params) types.Opinion {
	if len(series) < 2 {
		return insufficientData(nameBollinger)
	}

	closes := series.Closes()
	bb := indicator.BollingerBands(closes, p.BBPeriod, p.BBStd)

	n := len(closes)
	closePrice, prevClose := closes[n-1], closes[n-2]
	upper, lower := bb.Upper[n-1], bb.Lower[n-1]
	prevUpper, prevLower := bb.Upper[n-2], bb.Lower[n-2]
	if math.IsNaN(upper) || math.IsNaN(lower) || math.IsNaN(prevUpper) || math.IsNaN(prevLower) {
		return insufficientData(nameBollinger)
	}

	bandWidth := upper - lower
	if bandWidth == 0 {
		return types.Neutral(nameBollinger, "zero band width")
	}

	if prevClose <= prevLower && closePrice > lower {
		position := (closePrice - lower) / bandWidth
		return types.Opinion{
			Name:       nameBollinger,
			Direction:  types.DirectionLong,
			Confidence: math.Max(math.Min(position*2, 1.0), 0.6),
			Rationale:  "price bouncing off lower band",
		}
	}

	if prevClose >= prevUpper && closePrice < upper {
		position := (upper - closePrice) / bandWidth
		return types.Opinion{
			Name:       nameBollinger,
			Direction:  types.DirectionShort,
			Confidence: math.Max(math.Min(position*2, 1.0), 0.6),
			Rationale:  "price rejected from upper band",
		}
	}

	if closePrice < lower {
		distance := (lower - closePrice) / bandWidth
		return types.Opinion{
			Name:       nameBollinger,
			Direction:  types.DirectionLong,
			Confidence: math.Min(distance*3, 0.8),
			Rationale:  "price below lower band (oversold)",
		}
	}

	if closePrice > upper {
		distance := (closePrice - upper) / bandWidth
		return types.Opinion{
			Name:       nameBollinger,
			Direction:  types.DirectionShort,
			Confidence: math.Min(distance*3, 0.8),
			Rationale:  "price above upper band (overbought)",
		}
	}

	return types.Neutral(nameBollinger, "price within bands")
}
