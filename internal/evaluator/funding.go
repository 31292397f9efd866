package evaluator

import (
	"fmt"
	"math"

	"github.com/sentinel-quant/sentinel/internal/types"
)

const nameFunding = "Funding Rate"

// Funding-rate breakpoints, expressed as fractions.
const (
	fundingExtreme = 0.001  // 0.1%
	fundingHigh    = 0.0005 // 0.05%
)

// FundingRate reads crowding from the perpetual funding rate: extreme
// positive funding means longs are overcrowded (contrarian Short), extreme
// negative means shorts are (contrarian Long).
func FundingRate(funding *types.FundingData) types.Opinion {
	if funding == nil {
		return types.Neutral(nameFunding, "no funding data")
	}

	rate := funding.Rate
	switch {
	case rate > fundingExtreme:
		conf := math.Min((rate-fundingExtreme)/0.002, 1.0)
		return types.Opinion{
			Name:       nameFunding,
			Direction:  types.DirectionShort,
			Confidence: math.Max(conf, 0.7),
			Rationale:  fmt.Sprintf("extreme positive funding (%.4f%%), longs crowded", rate*100),
		}
	case rate > fundingHigh:
		conf := math.Min((rate-fundingHigh)/0.001, 0.7)
		return types.Opinion{
			Name:       nameFunding,
			Direction:  types.DirectionShort,
			Confidence: math.Max(conf, 0.4),
			Rationale:  fmt.Sprintf("high positive funding (%.4f%%)", rate*100),
		}
	case rate < -fundingExtreme:
		conf := math.Min((math.Abs(rate)-fundingExtreme)/0.002, 1.0)
		return types.Opinion{
			Name:       nameFunding,
			Direction:  types.DirectionLong,
			Confidence: math.Max(conf, 0.7),
			Rationale:  fmt.Sprintf("extreme negative funding (%.4f%%), shorts crowded", rate*100),
		}
	case rate < -fundingHigh:
		conf := math.Min((math.Abs(rate)-fundingHigh)/0.001, 0.7)
		return types.Opinion{
			Name:       nameFunding,
			Direction:  types.DirectionLong,
			Confidence: math.Max(conf, 0.4),
			Rationale:  fmt.Sprintf("high negative funding (%.4f%%)", rate*100),
		}
	}

	return types.Neutral(nameFunding, fmt.Sprintf("funding neutral (%.4f%%)", rate*100))
}
