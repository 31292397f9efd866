package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BollingerTestSuite struct {
	suite.Suite
}

func TestBollingerSuite(t *testing.T) {
	suite.Run(t, new(BollingerTestSuite))
}

func (suite *BollingerTestSuite) TestWarmUpWindow() {
	values := make([]float64, 25)
	for i := range values {
		values[i] = 100 + float64(i%4)
	}
	out := BollingerBands(values, 20, 2.0)

	for i := 0; i < 19; i++ {
		suite.True(math.IsNaN(out.Mid[i]), "index %d", i)
	}
	suite.False(math.IsNaN(out.Mid[19]))
}

func (suite *BollingerTestSuite) TestConstantSeriesCollapses() {
	values := make([]float64, 25)
	for i := range values {
		values[i] = 42
	}
	out := BollingerBands(values, 20, 2.0)

	suite.InDelta(42.0, out.Mid[24], 1e-9)
	suite.InDelta(42.0, out.Upper[24], 1e-9)
	suite.InDelta(42.0, out.Lower[24], 1e-9)
}

func (suite *BollingerTestSuite) TestBandOrdering() {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 100 + 5*math.Sin(float64(i)/3)
	}
	out := BollingerBands(values, 20, 2.0)

	for i := 19; i < 40; i++ {
		suite.Less(out.Lower[i], out.Mid[i], "index %d", i)
		suite.Greater(out.Upper[i], out.Mid[i], "index %d", i)
	}
}
