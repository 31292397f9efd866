package evaluator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sentinel-quant/sentinel/internal/types"
)

type RSIMomentumTestSuite struct {
	suite.Suite
	params Params
}

func TestRSIMomentumSuite(t *testing.T) {
	suite.Run(t, new(RSIMomentumTestSuite))
}

func (suite *RSIMomentumTestSuite) SetupTest() {
	suite.params = DefaultParams()
}

func (suite *RSIMomentumTestSuite) TestInsufficientData() {
	op := RSIMomentum(seriesFromCloses(100, 101, 102), suite.params)

	suite.Equal(types.DirectionNeutral, op.Direction)
	suite.Zero(op.Confidence)
	suite.Equal("insufficient data", op.Rationale)
}

func (suite *RSIMomentumTestSuite) TestOversoldZone() {
	// A relentless downtrend pins the RSI at zero, deep inside the zone.
	op := RSIMomentum(seriesFromCloses(rampCloses(40, 200, -1)...), suite.params)

	suite.Equal(types.DirectionLong, op.Direction)
	suite.InDelta(0.7, op.Confidence, 1e-9)
	suite.Contains(op.Rationale, "oversold zone")
}

func (suite *RSIMomentumTestSuite) TestOverboughtZone() {
	op := RSIMomentum(seriesFromCloses(rampCloses(40, 100, 1)...), suite.params)

	suite.Equal(types.DirectionShort, op.Direction)
	suite.InDelta(0.7, op.Confidence, 1e-9)
	suite.Contains(op.Rationale, "overbought zone")
}

func (suite *RSIMomentumTestSuite) TestRecoveryCrossFloorsAtHalf() {
	// Downtrend pins RSI at zero, then one violent up bar drags it across
	// the oversold boundary in a single step.
	closes := append(rampCloses(30, 200, -1), 221)
	op := RSIMomentum(seriesFromCloses(closes...), suite.params)

	suite.Equal(types.DirectionLong, op.Direction)
	suite.InDelta(0.5, op.Confidence, 1e-9)
	suite.Contains(op.Rationale, "recovering from oversold")
}

func (suite *RSIMomentumTestSuite) TestQuietTapeIsNeutral() {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%2)
	}
	op := RSIMomentum(seriesFromCloses(closes...), suite.params)

	suite.Equal(types.DirectionNeutral, op.Direction)
	suite.Contains(op.Rationale, "RSI neutral")
}
