package evaluator

import (
	"fmt"
	"math"

	"github.com/sentinel-quant/sentinel/internal/indicator"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameEMACross = "EMA Cross"

// EMACross reads the fast/slow EMA pair. A fresh crossover is the strongest
// call; a wide persistent gap still counts as trend continuation at reduced
// confidence.
func EMACross(series types.Series, p Params) types.Opinion {
	if len(series) < 2 {
		return insufficientData(nameEMACross)
	}

	closes := series.Closes()
	fast := indicator.EMA(closes, p.EMAFast)
	slow := indicator.EMA(closes, p.EMASlow)

	n := len(closes)
	currFast, prevFast := fast[n-1], fast[n-2]
	currSlow, prevSlow := slow[n-1], slow[n-2]
	if math.IsNaN(currFast) || math.IsNaN(currSlow) || math.IsNaN(prevFast) || math.IsNaN(prevSlow) {
		return insufficientData(nameEMACross)
	}

	if prevFast <= prevSlow && currFast > currSlow {
		gapPct := math.Abs(currFast-currSlow) / currSlow * 100
		return types.Opinion{
			Name:       nameEMACross,
			Direction:  types.DirectionLong,
			Confidence: math.Min(gapPct/0.5, 1.0),
			Rationale:  fmt.Sprintf("EMA%d crossed above EMA%d", p.EMAFast, p.EMASlow),
		}
	}

	if prevFast >= prevSlow && currFast < currSlow {
		gapPct := math.Abs(currFast-currSlow) / currSlow * 100
		return types.Opinion{
			Name:       nameEMACross,
			Direction:  types.DirectionShort,
			Confidence: math.Min(gapPct/0.5, 1.0),
			Rationale:  fmt.Sprintf("EMA%d crossed below EMA%d", p.EMAFast, p.EMASlow),
		}
	}

	if currFast > currSlow {
		gapPct := (currFast - currSlow) / currSlow * 100
		if gapPct > 0.3 {
			return types.Opinion{
				Name:       nameEMACross,
				Direction:  types.DirectionLong,
				Confidence: math.Min(gapPct, 0.6),
				Rationale:  fmt.Sprintf("EMA%d above EMA%d (trending)", p.EMAFast, p.EMASlow),
			}
		}
	} else if currFast < currSlow {
		gapPct := (currSlow - currFast) / currSlow * 100
		if gapPct > 0.3 {
			return types.Opinion{
				Name:       nameEMACross,
				Direction:  types.DirectionShort,
				Confidence: math.Min(gapPct, 0.6),
				Rationale:  fmt.Sprintf("EMA%d below EMA%d (trending)", p.EMAFast, p.EMASlow),
			}
		}
	}

	return types.Neutral(nameEMACross, "EMAs intertwined, no clear signal")
}
