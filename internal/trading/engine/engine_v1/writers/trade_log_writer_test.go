package writers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/stretchr/testify/suite"
)

type TradeLogWriterTestSuite struct {
	suite.Suite
	path string
}

func TestTradeLogWriterSuite(t *testing.T) {
	suite.Run(t, new(TradeLogWriterTestSuite))
}

func (suite *TradeLogWriterTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "live", "trade_log.csv")
}

func (suite *TradeLogWriterTestSuite) readLines() []string {
	content, err := os.ReadFile(suite.path)
	suite.Require().NoError(err)

	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func (suite *TradeLogWriterTestSuite) TestHeaderWrittenOnce() {
	at := time.Date(2024, 5, 6, 9, 30, 15, 0, time.UTC)

	first := NewTradeLogWriter(suite.path)
	suite.Require().NoError(first.Write(types.TradeLogEntry{
		Timestamp: at,
		Symbol:    "AAPL",
		Action:    types.PurchaseTypeBuy,
		Quantity:  4,
		Price:     187.25,
	}))

	second := NewTradeLogWriter(suite.path)
	suite.Require().NoError(second.Write(types.TradeLogEntry{
		Timestamp: at.Add(time.Minute),
		Symbol:    "MSFT",
		Action:    types.PurchaseTypeSell,
		Quantity:  0.75,
		Price:     401.1,
	}))

	suite.Equal([]string{
		"timestamp,symbol,action,quantity,price",
		"2024-05-06 09:30:15,AAPL,BUY,4,187.25",
		"2024-05-06 09:31:15,MSFT,SELL,0.75,401.1",
	}, suite.readLines())
	suite.Equal(suite.path, second.GetOutputPath())
}

func (suite *TradeLogWriterTestSuite) TestEmptyWriteOnlyCreatesHeader() {
	writer := NewTradeLogWriter(suite.path)
	suite.Require().NoError(writer.Write())

	suite.Equal([]string{"timestamp,symbol,action,quantity,price"}, suite.readLines())
}
