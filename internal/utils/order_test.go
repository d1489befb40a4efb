package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestBuyQuantityRoundsToWholeUnits() {
	suite.Equal(3.0, BuyQuantity(1000, 333.33))
	suite.Equal(2.0, BuyQuantity(25, 10))
	suite.Equal(4.0, BuyQuantity(35, 10))
	suite.Equal(0.0, BuyQuantity(4, 10))
	suite.Equal(0.0, BuyQuantity(100, 0))
}

func (suite *UtilsTestSuite) TestSellQuantityKeepsFraction() {
	suite.InDelta(3.0003000300030003, SellQuantity(1000, 333.33), 1e-12)
	suite.Equal(0.5, SellQuantity(5, 10))
	suite.Equal(0.0, SellQuantity(5, -1))
}

func (suite *UtilsTestSuite) TestRoundPrice() {
	suite.Equal(9.95, RoundPrice(9.9451))
	suite.Equal(10.06, RoundPrice(10.055))
	suite.Equal(12.0, RoundPrice(12))
}

func (suite *UtilsTestSuite) TestRoundToDecimalPrecision() {
	testCases := []struct {
		quantity  float64
		precision int
		expected  float64
	}{
		{1.23456789, 2, 1.23},
		{1.23956789, 2, 1.23},
		{0.000012345, 8, 0.00001234},
		{5, 0, 5},
	}

	for _, tc := range testCases {
		suite.InDelta(tc.expected, RoundToDecimalPrecision(tc.quantity, tc.precision), 1e-12)
	}
}
