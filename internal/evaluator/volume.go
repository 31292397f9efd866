package evaluator

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameVolume = "Volume"

// VolumeSpike confirms moves backed by real participation: when the latest
// bar's volume clears the multiplier against the lookback average, the last
// close-to-close change picks the direction.
func VolumeSpike(series types.Series, p Params) types.Opinion {
	if len(series) < p.VolumeLookback {
		return insufficientData(nameVolume)
	}

	volumes := series.Volumes()
	window := volumes[len(volumes)-p.VolumeLookback:]
	avgVol := lo.Sum(window) / float64(len(window))
	if avgVol == 0 {
		return types.Neutral(nameVolume, "zero average volume")
	}

	ratio := volumes[len(volumes)-1] / avgVol
	if ratio < p.VolumeMultiplier {
		return types.Neutral(nameVolume, fmt.Sprintf("normal volume (%.1fx avg)", ratio))
	}

	closes := series.Closes()
	priceChange := closes[len(closes)-1] - closes[len(closes)-2]
	conf := math.Min((ratio-1.0)/2.0, 1.0)

	switch {
	case priceChange > 0:
		return types.Opinion{
			Name:       nameVolume,
			Direction:  types.DirectionLong,
			Confidence: conf,
			Rationale:  fmt.Sprintf("volume spike %.1fx (bullish)", ratio),
		}
	case priceChange < 0:
		return types.Opinion{
			Name:       nameVolume,
			Direction:  types.DirectionShort,
			Confidence: conf,
			Rationale:  fmt.Sprintf("volume spike %.1fx (bearish)", ratio),
		}
	default:
		return types.Opinion{
			Name:       nameVolume,
			Direction:  types.DirectionNeutral,
			Confidence: conf,
			Rationale:  fmt.Sprintf("volume spike %.1fx (flat price)", ratio),
		}
	}
}
