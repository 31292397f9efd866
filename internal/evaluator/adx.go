package evaluator

import (
	"fmt"
	"math"

	"github.com/sentinel-quant/sentinel/internal/indicator"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameADX = "ADX"

// ADXTrend only speaks when the ADX clears its threshold; direction comes
// from the dominant directional indicator and confidence grows with both the
// trend strength and the DI gap.
func ADXTrend(series types.Series, p Params) types.Opinion {
	if len(series) < 2 {
		return insufficientData(nameADX)
	}

	out := indicator.ADX(series.Highs(), series.Lows(), series.Closes(), p.ADXPeriod)
	n := len(out.ADX)
	adxVal := out.ADX[n-1]
	plusDI := out.PlusDI[n-1]
	minusDI := out.MinusDI[n-1]
	if math.IsNaN(adxVal) || math.IsNaN(plusDI) || math.IsNaN(minusDI) {
		return insufficientData(nameADX)
	}

	if adxVal < p.ADXThreshold {
		return types.Neutral(nameADX,
			fmt.Sprintf("ADX weak trend (%.1f < %.0f)", adxVal, p.ADXThreshold))
	}

	conf := math.Min((adxVal-p.ADXThreshold)/25, 1.0)

	if plusDI > minusDI {
		conf = math.Min(conf+(plusDI-minusDI)/30, 1.0)
		return types.Opinion{
			Name:       nameADX,
			Direction:  types.DirectionLong,
			Confidence: conf,
			Rationale:  fmt.Sprintf("ADX %.0f bullish (+DI %.0f > -DI %.0f)", adxVal, plusDI, minusDI),
		}
	}

	conf = math.Min(conf+(minusDI-plusDI)/30, 1.0)
	return types.Opinion{
		Name:       nameADX,
		Direction:  types.DirectionShort,
		Confidence: conf,
		Rationale:  fmt.Sprintf("ADX %.0f bearish (-DI %.0f > +DI %.0f)", adxVal, minusDI, plusDI),
	}
}
