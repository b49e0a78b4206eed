package backtest

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-ma/internal/types"
)

// Summarize turns a finished run into a reportable summary with a fresh run id.
func Summarize(symbol string, params Params, result Result, now time.Time) types.BacktestSummary {
	return types.BacktestSummary{
		RunID:       uuid.New().String(),
		Timestamp:   now,
		Symbol:      symbol,
		Period:      params.Period,
		StartDate:   types.TruncateToDay(params.StartDate),
		EndDate:     types.TruncateToDay(params.EndDate),
		TradeCount:  result.TradeCount,
		InitialCash: params.InitialCash,
		FinalValue:  result.FinalValue,
		Profit:      result.Profit,
		Trades:      result.Trades,
	}
}
