package evaluator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sentinel-quant/sentinel/internal/types"
)

type VolumeSpikeTestSuite struct {
	suite.Suite
	params Params
}

func TestVolumeSpikeSuite(t *testing.T) {
	suite.Run(t, new(VolumeSpikeTestSuite))
}

func (suite *VolumeSpikeTestSuite) SetupTest() {
	suite.params = DefaultParams()
}

// volumeSeries builds bars with the given volumes; the last bar closes in the
// given direction relative to the one before it.
func volumeSeries(volumes []float64, lastChange float64) types.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(types.Series, len(volumes))
	price := 100.0
	for i, v := range volumes {
		if i == len(volumes)-1 {
			price += lastChange
		}
		out[i] = types.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     price,
			High:     price + 1,
			Low:      price - 1,
			Close:    price,
			Volume:   v,
		}
	}
	return out
}

func spikeVolumes(n int, base, last float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base
	}
	out[n-1] = last
	return out
}

func (suite *VolumeSpikeTestSuite) TestInsufficientData() {
	op := VolumeSpike(volumeSeries(spikeVolumes(10, 100, 300), 1), suite.params)

	suite.Equal(types.DirectionNeutral, op.Direction)
	suite.Equal("insufficient data", op.Rationale)
}

func (suite *VolumeSpikeTestSuite) TestBullishSpike() {
	// avg = (19*100 + 300) / 20 = 110, ratio = 300/110.
	op := VolumeSpike(volumeSeries(spikeVolumes(20, 100, 300), 2), suite.params)

	suite.Equal(types.DirectionLong, op.Direction)
	suite.InDelta((300.0/110.0-1.0)/2.0, op.Confidence, 1e-9)
	suite.Contains(op.Rationale, "bullish")
}

func (suite *VolumeSpikeTestSuite) TestBearishSpike() {
	op := VolumeSpike(volumeSeries(spikeVolumes(20, 100, 300), -2), suite.params)

	suite.Equal(types.DirectionShort, op.Direction)
	suite.Contains(op.Rationale, "bearish")
}

func (suite *VolumeSpikeTestSuite) TestFlatPriceSpikeStaysNeutral() {
	op := VolumeSpike(volumeSeries(spikeVolumes(20, 100, 300), 0), suite.params)

	suite.Equal(types.DirectionNeutral, op.Direction)
	suite.Greater(op.Confidence, 0.0)
	suite.Contains(op.Rationale, "flat price")
}

func (suite *VolumeSpikeTestSuite) TestNormalVolumeIsNeutral() {
	op := VolumeSpike(volumeSeries(spikeVolumes(20, 100, 120), 2), suite.params)

	suite.Equal(types.DirectionNeutral, op.Direction)
	suite.Zero(op.Confidence)
	suite.Contains(op.Rationale, "normal volume")
}

func (suite *VolumeSpikeTestSuite) TestZeroAverageIsNeutral() {
	op := VolumeSpike(volumeSeries(spikeVolumes(20, 0, 0), 2), suite.params)

	suite.Equal(types.DirectionNeutral, op.Direction)
	suite.Equal("zero average volume", op.Rationale)
}
