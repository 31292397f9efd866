package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type OrderTestSuite struct {
	suite.Suite
}

func (s *OrderTestSuite) TestRoundToDecimalPrecision() {
	tests := []struct {
		name      string
		quantity  float64
		precision int
		expected  float64
	}{
		{name: "floors rather than rounds", quantity: 0.129999, precision: 3, expected: 0.129},
		{name: "already exact", quantity: 1.5, precision: 1, expected: 1.5},
		{name: "zero precision", quantity: 9.99, precision: 0, expected: 9.0},
		{name: "tiny quantity floors to zero", quantity: 0.0004, precision: 3, expected: 0.0},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.InDelta(tc.expected, RoundToDecimalPrecision(tc.quantity, tc.precision), 1e-12)
		})
	}
}

func (s *OrderTestSuite) TestOrderQuantity() {
	s.InDelta(0.023, OrderQuantity(2.3, 100.0, 1), 1e-12)
	s.InDelta(0.115, OrderQuantity(2.3, 100.0, 5), 1e-12)
	s.Zero(OrderQuantity(0, 100.0, 5))
	s.Zero(OrderQuantity(2.3, 0, 5))
	s.Zero(OrderQuantity(2.3, 100.0, 0))
}

func TestOrderTestSuite(t *testing.T) {
	suite.Run(t, new(OrderTestSuite))
}
