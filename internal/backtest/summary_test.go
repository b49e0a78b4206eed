package backtest

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SummaryTestSuite struct {
	suite.Suite
}

func TestSummarySuite(t *testing.T) {
	suite.Run(t, new(SummaryTestSuite))
}

func (suite *SummaryTestSuite) TestSummarize() {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	params := Params{
		Period:      30,
		StartDate:   time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
		InitialCash: decimal.NewFromInt(1000),
	}
	result := Result{
		FinalValue: decimal.NewFromInt(1250),
		Profit:     decimal.NewFromInt(250),
		TradeCount: 1,
		Trades: []types.Trade{
			{Date: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), Side: types.TradeSideBuy, Price: decimal.NewFromInt(40)},
		},
	}

	summary := Summarize("COMPUSDT", params, result, now)

	_, err := uuid.Parse(summary.RunID)
	suite.NoError(err)
	suite.Equal(now, summary.Timestamp)
	suite.Equal("COMPUSDT", summary.Symbol)
	suite.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), summary.StartDate)
	suite.Equal(1, summary.TradeCount)
	suite.True(summary.Profit.Equal(decimal.NewFromInt(250)))
	suite.Len(summary.Trades, 1)

	other := Summarize("COMPUSDT", params, result, now)
	suite.NotEqual(summary.RunID, other.RunID)

	var buf bytes.Buffer
	suite.Require().NoError(types.WriteBacktestSummary(&buf, summary))
	suite.Contains(buf.String(), "symbol: COMPUSDT")
}
