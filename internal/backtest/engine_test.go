package backtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ma/internal/logger"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.engine = NewEngine(logger.NewNopLogger())
}

var seriesStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func dayN(n int) time.Time {
	return seriesStart.AddDate(0, 0, n)
}

func (suite *EngineTestSuite) series(closes ...int64) types.BarSeries {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{Date: dayN(i), Close: decimal.NewFromInt(c)}
	}

	series, err := types.NewBarSeries("COMPUSDT", types.GranularityDaily, bars)
	suite.Require().NoError(err)

	return series
}

func repeat(value int64, count int) []int64 {
	out := make([]int64, count)
	for i := range out {
		out[i] = value
	}

	return out
}

func (suite *EngineTestSuite) params(period, startDay, endDay int, cash int64) Params {
	return Params{
		Period:      period,
		StartDate:   dayN(startDay),
		EndDate:     dayN(endDay),
		InitialCash: decimal.NewFromInt(cash),
	}
}

func (suite *EngineTestSuite) TestSingleCrossing() {
	// 30 flat days, a dip that stays flat, one crossing on day 31, then hold
	closes := append(repeat(100, 30), 90, 110, 120, 130, 140)
	series := suite.series(closes...)

	result, err := suite.engine.Run(series, suite.params(30, 30, 34, 1000), optional.None[OnProcessDateCallback]())
	suite.Require().NoError(err)

	suite.Equal(1, result.TradeCount)
	suite.Require().Len(result.Trades, 1)

	trade := result.Trades[0]
	suite.Equal(types.TradeSideBuy, trade.Side)
	suite.Equal(dayN(31), trade.Date)
	suite.True(trade.Price.Equal(decimal.NewFromInt(110)))
	suite.True(trade.Cash.IsZero())

	expected := decimal.NewFromInt(1000).Div(decimal.NewFromInt(110)).Mul(decimal.NewFromInt(140))
	suite.True(result.FinalValue.Equal(expected), "final value %s, expected %s", result.FinalValue, expected)
	suite.True(result.Profit.Equal(expected.Sub(decimal.NewFromInt(1000))))
	suite.True(result.LastPrice.Equal(decimal.NewFromInt(140)))
}

func (suite *EngineTestSuite) TestPackageLevelRun() {
	closes := append(repeat(100, 30), 90, 110, 120, 130, 140)

	result, err := Run(suite.series(closes...), 30, dayN(30), dayN(34), decimal.NewFromInt(1000))
	suite.Require().NoError(err)
	suite.Equal(1, result.TradeCount)
}

func (suite *EngineTestSuite) TestNoOpDays() {
	series := suite.series(repeat(100, 40)...)

	result, err := suite.engine.Run(series, suite.params(5, 5, 39, 1000), optional.None[OnProcessDateCallback]())
	suite.Require().NoError(err)

	suite.Equal(0, result.TradeCount)
	suite.Empty(result.Trades)
	suite.True(result.FinalValue.Equal(decimal.NewFromInt(1000)))
	suite.True(result.Profit.IsZero())
}

func (suite *EngineTestSuite) TestPriceEqualToAverageSells() {
	// period 2: day 2 buys at 110 over MA 100, day 3 closes at 105 == MA 105
	series := suite.series(100, 100, 110, 105)

	result, err := suite.engine.Run(series, suite.params(2, 2, 3, 1000), optional.None[OnProcessDateCallback]())
	suite.Require().NoError(err)

	suite.Require().Equal(2, result.TradeCount)
	suite.Equal(types.TradeSideBuy, result.Trades[0].Side)
	suite.Equal(types.TradeSideSell, result.Trades[1].Side)
	suite.True(result.Trades[1].Quantity.IsZero())

	expected := decimal.NewFromInt(1000).Div(decimal.NewFromInt(110)).Mul(decimal.NewFromInt(105))
	suite.True(result.FinalValue.Equal(expected))
	suite.True(result.Profit.IsNegative())
}

func (suite *EngineTestSuite) TestRoundTripTrades() {
	// period 1: each close is compared with the previous close
	series := suite.series(100, 110, 105, 120, 90)

	result, err := suite.engine.Run(series, suite.params(1, 1, 4, 1000), optional.None[OnProcessDateCallback]())
	suite.Require().NoError(err)

	sides := make([]types.TradeSide, 0, len(result.Trades))
	for _, trade := range result.Trades {
		sides = append(sides, trade.Side)
	}

	suite.Equal([]types.TradeSide{types.TradeSideBuy, types.TradeSideSell, types.TradeSideBuy, types.TradeSideSell}, sides)
	suite.Equal(4, result.TradeCount)

	// all cash after the final sell
	last := result.Trades[len(result.Trades)-1]
	suite.True(result.FinalValue.Equal(last.Cash))
}

func (suite *EngineTestSuite) TestDeterministic() {
	start := time.Date(2022, 12, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)

	bars := make([]types.Bar, 0)
	for i, d := 0, start; !d.After(end); i, d = i+1, d.AddDate(0, 0, 1) {
		bars = append(bars, types.Bar{
			Date:  d,
			Close: decimal.NewFromInt(int64(100 + (i*7)%23 + i/10)),
		})
	}

	series, err := types.NewBarSeries("COMPUSDT", types.GranularityDaily, bars)
	suite.Require().NoError(err)

	params := Params{
		Period:      30,
		StartDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     end,
		InitialCash: decimal.NewFromInt(1000),
	}

	first, err := suite.engine.Run(series, params, optional.None[OnProcessDateCallback]())
	suite.Require().NoError(err)

	second, err := suite.engine.Run(series, params, optional.None[OnProcessDateCallback]())
	suite.Require().NoError(err)

	suite.Equal(first.TradeCount, second.TradeCount)
	suite.True(first.FinalValue.Equal(second.FinalValue))
	suite.True(first.Profit.Equal(second.Profit))
	suite.Equal(first.Trades, second.Trades)

	// the serialized trade logs match byte for byte
	firstLog, err := yaml.Marshal(first.Trades)
	suite.Require().NoError(err)
	secondLog, err := yaml.Marshal(second.Trades)
	suite.Require().NoError(err)
	suite.Equal(firstLog, secondLog)

	suite.Greater(first.TradeCount, 0)
}

func (suite *EngineTestSuite) TestMissingDateInsideWindowAborts() {
	bars := make([]types.Bar, 0)
	for i := 0; i < 40; i++ {
		if i == 25 {
			continue
		}

		bars = append(bars, types.Bar{Date: dayN(i), Close: decimal.NewFromInt(100)})
	}

	series, err := types.NewBarSeries("COMPUSDT", types.GranularityDaily, bars)
	suite.Require().NoError(err)

	result, err := suite.engine.Run(series, suite.params(10, 20, 39, 1000), optional.None[OnProcessDateCallback]())
	suite.Error(err)
	suite.True(errors.IsMissingDateError(err))
	suite.Equal(Result{}, result)
}

func (suite *EngineTestSuite) TestMissingCloseOnReplayedDate() {
	series := suite.series(repeat(100, 10)...)

	_, err := suite.engine.Run(series, suite.params(3, 5, 12, 1000), optional.None[OnProcessDateCallback]())
	suite.Error(err)
	suite.True(errors.IsMissingDateError(err))
}

func (suite *EngineTestSuite) TestInsufficientHistoryAtStart() {
	series := suite.series(repeat(100, 10)...)

	_, err := suite.engine.Run(series, suite.params(5, 3, 9, 1000), optional.None[OnProcessDateCallback]())
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *EngineTestSuite) TestInvalidParameters() {
	series := suite.series(repeat(100, 10)...)

	testCases := []struct {
		name   string
		params Params
		code   errors.ErrorCode
	}{
		{"end before start", suite.params(2, 8, 4, 1000), errors.ErrCodeInvalidParameter},
		{"zero cash", suite.params(2, 4, 8, 0), errors.ErrCodeInvalidParameter},
		{"negative cash", suite.params(2, 4, 8, -10), errors.ErrCodeInvalidParameter},
		{"zero period", suite.params(0, 4, 8, 1000), errors.ErrCodeInvalidPeriod},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.engine.Run(series, tc.params, optional.None[OnProcessDateCallback]())
			suite.Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
		})
	}
}

func (suite *EngineTestSuite) TestRejectsIntradaySeries() {
	series, err := types.NewBarSeries("COMPUSDT", "4h", []types.Bar{
		{Date: dayN(0), Close: decimal.NewFromInt(1)},
	})
	suite.Require().NoError(err)

	_, err = suite.engine.Run(series, suite.params(1, 0, 0, 1000), optional.None[OnProcessDateCallback]())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidGranularity))
}

func (suite *EngineTestSuite) TestProgressCallback() {
	series := suite.series(repeat(100, 10)...)

	var calls []int

	callback := OnProcessDateCallback(func(current int, total int) error {
		suite.Equal(6, total)
		calls = append(calls, current)

		return nil
	})

	_, err := suite.engine.Run(series, suite.params(2, 4, 9, 1000), optional.Some(callback))
	suite.Require().NoError(err)
	suite.Equal([]int{1, 2, 3, 4, 5, 6}, calls)
}

func (suite *EngineTestSuite) TestProgressCallbackAborts() {
	series := suite.series(repeat(100, 10)...)

	callback := OnProcessDateCallback(func(current int, _ int) error {
		if current == 2 {
			return fmt.Errorf("stop")
		}

		return nil
	})

	result, err := suite.engine.Run(series, suite.params(2, 4, 9, 1000), optional.Some(callback))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestFailed))
	suite.Equal(Result{}, result)
}
