package evaluator

import (
	"math"

	"github.com/sentinel-quant/sentinel/internal/indicator"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameMACD = "MACD"

// MACDCross votes on MACD/signal-line crossovers with a 0.6 confidence floor,
// scaling with the histogram relative to the MACD line. Without a crossover a
// monotonically growing histogram still gives a weak momentum opinion.
func MACDCross(series types.Series, p Params) types.Opinion {
	if len(series) < 2 {
		return insufficientData(nameMACD)
	}

	out := indicator.MACD(series.Closes(), p.MACDFast, p.MACDSlow, p.MACDSignal)
	n := len(out.Line)
	currMACD, prevMACD := out.Line[n-1], out.Line[n-2]
	currSignal, prevSignal := out.Signal[n-1], out.Signal[n-2]
	currHist, prevHist := out.Histogram[n-1], out.Histogram[n-2]
	if math.IsNaN(currMACD) || math.IsNaN(currSignal) || math.IsNaN(prevMACD) || math.IsNaN(prevSignal) {
		return insufficientData(nameMACD)
	}

	if prevMACD <= prevSignal && currMACD > currSignal {
		conf := math.Min(math.Abs(currHist)/(math.Abs(currMACD)+1e-10)*2, 1.0)
		return types.Opinion{
			Name:       nameMACD,
			Direction:  types.DirectionLong,
			Confidence: math.Max(conf, 0.6),
			Rationale:  "MACD bullish crossover",
		}
	}

	if prevMACD >= prevSignal && currMACD < currSignal {
		conf := math.Min(math.Abs(currHist)/(math.Abs(currMACD)+1e-10)*2, 1.0)
		return types.Opinion{
			Name:       nameMACD,
			Direction:  types.DirectionShort,
			Confidence: math.Max(conf, 0.6),
			Rationale:  "MACD bearish crossover",
		}
	}

	if currHist > 0 && currHist > prevHist {
		return types.Opinion{
			Name:       nameMACD,
			Direction:  types.DirectionLong,
			Confidence: 0.4,
			Rationale:  "MACD histogram growing (bullish momentum)",
		}
	}
	if currHist < 0 && currHist < prevHist {
		return types.Opinion{
			Name:       nameMACD,
			Direction:  types.DirectionShort,
			Confidence: 0.4,
			Rationale:  "MACD histogram falling (bearish momentum)",
		}
	}

	return types.Neutral(nameMACD, "MACD no clear signal")
}
