package evaluator

import (
	"fmt"
	"math"

	"github.com/sentinel-quant/sentinel/internal/indicator"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameRSI = "RSI"

// RSIMomentum signals on escapes from the oversold/overbought zones. A cross
// back through the boundary carries a 0.5 confidence floor; merely sitting in
// a zone yields a softer opinion scaled by depth.
func RSIMomentum(series types.Series, p Params) types.Opinion {
	if len(series) < 2 {
		return insufficientData(nameRSI)
	}

	rsi := indicator.RSI(series.Closes(), p.RSIPeriod)
	n := len(rsi)
	curr, prev := rsi[n-1], rsi[n-2]
	if math.IsNaN(curr) || math.IsNaN(prev) {
		return insufficientData(nameRSI)
	}

	if prev <= p.RSIOversold && curr > p.RSIOversold {
		conf := math.Min((p.RSIOversold-(prev+curr)/2+10)/20, 1.0)
		return types.Opinion{
			Name:       nameRSI,
			Direction:  types.DirectionLong,
			Confidence: math.Max(conf, 0.5),
			Rationale:  fmt.Sprintf("RSI recovering from oversold (%.1f)", curr),
		}
	}

	if prev >= p.RSIOverbought && curr < p.RSIOverbought {
		conf := math.Min(((prev+curr)/2-p.RSIOverbought+10)/20, 1.0)
		return types.Opinion{
			Name:       nameRSI,
			Direction:  types.DirectionShort,
			Confidence: math.Max(conf, 0.5),
			Rationale:  fmt.Sprintf("RSI rejected from overbought (%.1f)", curr),
		}
	}

	if curr < p.RSIOversold {
		return types.Opinion{
			Name:       nameRSI,
			Direction:  types.DirectionLong,
			Confidence: math.Min((p.RSIOversold-curr)/15, 0.7),
			Rationale:  fmt.Sprintf("RSI in oversold zone (%.1f)", curr),
		}
	}

	if curr > p.RSIOverbought {
		return types.Opinion{
			Name:       nameRSI,
			Direction:  types.DirectionShort,
			Confidence: math.Min((curr-p.RSIOverbought)/15, 0.7),
			Rationale:  fmt.Sprintf("RSI in overbought zone (%.1f)", curr),
		}
	}

	return types.Neutral(nameRSI, fmt.Sprintf("RSI neutral (%.1f)", curr))
}
