// Package backtest replays a long/flat single-average strategy over a daily
// bar series.
package backtest

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ma/internal/indicator"
	"github.com/rxtech-lab/argo-ma/internal/logger"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OnProcessDateCallback is called after each replayed date. Returning an
// error aborts the run.
type OnProcessDateCallback func(current int, total int) error

// Params describes one backtest run.
type Params struct {
	Period      int
	StartDate   time.Time
	EndDate     time.Time
	InitialCash decimal.Decimal
}

// Result is the outcome of a completed run. A failed run has no Result.
type Result struct {
	FinalValue decimal.Decimal
	Profit     decimal.Decimal
	TradeCount int
	Trades     []types.Trade
	// LastPrice is the close on the final replayed date
	LastPrice decimal.Decimal
}

// Engine runs backtests. It holds no per-run state and can be reused.
type Engine struct {
	log *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{log: log}
}

// Run is Engine.Run with a silent logger and no progress callback.
func Run(series types.BarSeries, period int, startDate, endDate time.Time, initialCash decimal.Decimal) (Result, error) {
	return NewEngine(nil).Run(series, Params{
		Period:      period,
		StartDate:   startDate,
		EndDate:     endDate,
		InitialCash: initialCash,
	}, optional.None[OnProcessDateCallback]())
}

// Run replays every calendar day in [StartDate, EndDate]. On each day the
// close is compared with the average of the Period days before it: above
// buys with all cash when flat, at or below sells everything when long.
// Any error aborts the run.
func (e *Engine) Run(series types.BarSeries, params Params, onProcessDate optional.Option[OnProcessDateCallback]) (Result, error) {
	if err := e.preRunCheck(series, params); err != nil {
		return Result{}, err
	}

	dates, err := BuildDateList(params.StartDate, params.EndDate)
	if err != nil {
		return Result{}, err
	}

	e.log.Debug("Starting backtest",
		zap.String("symbol", series.Symbol()),
		zap.Int("period", params.Period),
		zap.Time("start_date", dates[0]),
		zap.Time("end_date", dates[len(dates)-1]),
		zap.String("initial_cash", params.InitialCash.String()),
	)

	state := NewState(params.InitialCash)
	trades := make([]types.Trade, 0)
	lastPrice := decimal.Zero

	for i, date := range dates {
		average, err := indicator.AverageAsOf(series, params.Period, date)
		if err != nil {
			return Result{}, err
		}

		price, err := series.CloseAt(date)
		if err != nil {
			return Result{}, err
		}

		lastPrice = price

		var side types.TradeSide

		if price.GreaterThan(average) {
			if state.Buy(price) {
				side = types.TradeSideBuy
			}
		} else if state.Sell(price) {
			side = types.TradeSideSell
		}

		if side != "" {
			trade := types.Trade{
				Date:     date,
				Side:     side,
				Price:    price,
				Average:  average,
				Cash:     state.Cash(),
				Quantity: state.Held(),
			}
			trades = append(trades, trade)

			e.log.Debug("Trade executed",
				zap.String("symbol", series.Symbol()),
				zap.String("side", string(side)),
				zap.Time("date", date),
				zap.String("price", price.String()),
				zap.String("average", average.String()),
			)
		}

		if onProcessDate.IsSome() {
			if err := onProcessDate.Unwrap()(i+1, len(dates)); err != nil {
				return Result{}, errors.Wrap(errors.ErrCodeBacktestFailed, "backtest cancelled", err)
			}
		}
	}

	finalValue := state.Value(lastPrice)

	result := Result{
		FinalValue: finalValue,
		Profit:     finalValue.Sub(params.InitialCash),
		TradeCount: len(trades),
		Trades:     trades,
		LastPrice:  lastPrice,
	}

	e.log.Info("Backtest completed",
		zap.String("symbol", series.Symbol()),
		zap.Int("trade_count", result.TradeCount),
		zap.String("final_value", result.FinalValue.String()),
		zap.String("profit", result.Profit.String()),
	)

	return result, nil
}

func (e *Engine) preRunCheck(series types.BarSeries, params Params) error {
	if params.Period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", params.Period)
	}

	if !params.InitialCash.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "initial cash must be positive, got %s", params.InitialCash.String())
	}

	if !series.IsDaily() {
		return errors.Newf(errors.ErrCodeInvalidGranularity, "backtest needs %s bars, got %s", types.GranularityDaily, series.Granularity())
	}

	return nil
}
