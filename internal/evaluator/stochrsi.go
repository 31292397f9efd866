package evaluator

import (
	"fmt"
	"math"

	"github.com/sentinel-quant/sentinel/internal/indicator"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameStochRSI = "Stoch RSI"

// StochRSICross signals on %K/%D crossovers, but only near the extremes: a
// bullish cross must land below oversold+10, a bearish cross above
// overbought-10. Deep in a zone without a cross it gives a weak opinion.
func StochRSICross(series types.Series, p Params) types.Opinion {
	if len(series) < 2 {
		return insufficientData(nameStochRSI)
	}

	out := indicator.StochRSI(series.Closes(), p.StochRSIPeriod, p.StochRSIPeriod, p.StochRSIK, p.StochRSID)
	n := len(out.K)
	currK, prevK := out.K[n-1], out.K[n-2]
	currD, prevD := out.D[n-1], out.D[n-2]
	if math.IsNaN(currK) || math.IsNaN(prevK) || math.IsNaN(currD) || math.IsNaN(prevD) {
		return insufficientData(nameStochRSI)
	}

	if prevK <= prevD && currK > currD && currK < p.StochRSIOversold+10 {
		conf := math.Min((p.StochRSIOversold+10-currK)/20, 1.0)
		return types.Opinion{
			Name:       nameStochRSI,
			Direction:  types.DirectionLong,
			Confidence: math.Max(conf, 0.6),
			Rationale:  fmt.Sprintf("StochRSI bullish crossover in oversold (%.0f)", currK),
		}
	}

	if prevK >= prevD && currK < currD && currK > p.StochRSIOverbought-10 {
		conf := math.Min((currK-p.StochRSIOverbought+10)/20, 1.0)
		return types.Opinion{
			Name:       nameStochRSI,
			Direction:  types.DirectionShort,
			Confidence: math.Max(conf, 0.6),
			Rationale:  fmt.Sprintf("StochRSI bearish crossover in overbought (%.0f)", currK),
		}
	}

	if currK < p.StochRSIOversold {
		return types.Opinion{
			Name:       nameStochRSI,
			Direction:  types.DirectionLong,
			Confidence: 0.4,
			Rationale:  fmt.Sprintf("StochRSI oversold (%.0f)", currK),
		}
	}
	if currK > p.StochRSIOverbought {
		return types.Opinion{
			Name:       nameStochRSI,
			Direction:  types.DirectionShort,
			Confidence: 0.4,
			Rationale:  fmt.Sprintf("StochRSI overbought (%.0f)", currK),
		}
	}

	return types.Neutral(nameStochRSI, fmt.Sprintf("StochRSI neutral (%.0f)", currK))
}
