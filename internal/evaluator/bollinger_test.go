package evaluator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sentinel-quant/sentinel/internal/types"
)

type BollingerBounceTestSuite struct {
	suite.Suite
	params Params
}

func TestBollingerBounceSuite(t *testing.T) {
	suite.Run(t, new(BollingerBounceTestSuite))
}

func (suite *BollingerBounceTestSuite) SetupTest() {
	suite.params = DefaultParams()
}

func noisyCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i%2)*2 // alternating 100/102
	}
	return out
}

func (suite *BollingerBounceTestSuite) TestZeroBandWidthIsNeutral() {
	op := BollingerBounce(seriesFromCloses(flatCloses(30, 100)...), suite.params)

	suite.Equal(types.DirectionNeutral, op.Direction)
	suite.Equal("zero band width", op.Rationale)
}

func (suite *BollingerBounceTestSuite) TestBreakBelowLowerBand() {
	closes := append(noisyCloses(30), 80)
	op := BollingerBounce(seriesFromCloses(closes...), suite.params)

	suite.Equal(types.DirectionLong, op.Direction)
	suite.InDelta(0.8, op.Confidence, 1e-9)
	suite.Contains(op.Rationale, "below lower band")
}

func (suite *BollingerBounceTestSuite) TestBreakAboveUpperBand() {
	closes := append(noisyCloses(30), 130)
	op := BollingerBounce(seriesFromCloses(closes...), suite.params)

	suite.Equal(types.DirectionShort, op.Direction)
	suite.InDelta(0.8, op.Confidence, 1e-9)
	suite.Contains(op.Rationale, "above upper band")
}

func (suite *BollingerBounceTestSuite) TestBounceOffLowerBand() {
	// Previous bar closed through the lower band, latest bar re-entered.
	closes := append(noisyCloses(30), 80, 101)
	op := BollingerBounce(seriesFromCloses(closes...), suite.params)

	suite.Equal(types.DirectionLong, op.Direction)
	suite.GreaterOrEqual(op.Confidence, 0.6)
	suite.Contains(op.Rationale, "bouncing off lower band")
}

func (suite *BollingerBounceTestSuite) TestInsideBandsIsNeutral() {
	op := BollingerBounce(seriesFromCloses(noisyCloses(30)...), suite.params)

	suite.Equal(types.DirectionNeutral, op.Direction)
	suite.Contains(op.Rationale, "within bands")
}
