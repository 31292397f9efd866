package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CandleTestSuite struct {
	suite.Suite
}

func TestCandleSuite(t *testing.T) {
	suite.Run(t, new(CandleTestSuite))
}

func (suite *CandleTestSuite) buildSeries(closes ...float64) Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(Series, len(closes))

	for i, c := range closes {
		series[i] = Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     c,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
			Volume:   100,
		}
	}

	return series
}

func (suite *CandleTestSuite) TestValidateOrdered() {
	series := suite.buildSeries(1, 2, 3)
	suite.NoError(series.Validate())
}

func (suite *CandleTestSuite) TestValidateUnordered() {
	series := suite.buildSeries(1, 2, 3)
	series[2].OpenTime = series[0].OpenTime

	suite.Error(series.Validate())
}

func (suite *CandleTestSuite) TestAccessors() {
	series := suite.buildSeries(10, 20, 30)

	suite.Equal([]float64{10, 20, 30}, series.Closes())
	suite.Equal([]float64{11, 21, 31}, series.Highs())
	suite.Equal([]float64{9, 19, 29}, series.Lows())
	suite.Equal([]float64{100, 100, 100}, series.Volumes())
}

func (suite *CandleTestSuite) TestLast() {
	series := suite.buildSeries(10, 20, 30)

	last, ok := series.Last()
	suite.True(ok)
	suite.Equal(30.0, last.Close)

	_, ok = Series{}.Last()
	suite.False(ok)
}
