package report

import (
	"github.com/rxtech-lab/argo-ma/internal/logger"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"go.uber.org/zap"
)

// LogReporter writes every outcome to the structured log.
type LogReporter struct {
	log *logger.Logger
}

func NewLogReporter(log *logger.Logger) *LogReporter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &LogReporter{log: log}
}

func (r *LogReporter) ReportSignal(record types.SignalRecord) error {
	view := NewSignalView(record)

	fields := []zap.Field{
		zap.String("symbol", view.Symbol),
		zap.String("strategy", view.Strategy),
		zap.String("granularity", view.Granularity),
		zap.String("price", view.Price),
		zap.Any("averages", view.Averages),
		zap.String("type", view.Type),
	}

	if view.Percent != "" {
		fields = append(fields, zap.String("percent", view.Percent))
	}

	if view.Hit {
		r.log.Info("Signal hit", fields...)
	} else {
		r.log.Debug("Signal evaluated", fields...)
	}

	return nil
}

func (r *LogReporter) ReportFailure(symbol string, err error) error {
	r.log.Warn("Skipped instrument", zap.String("symbol", symbol), zap.Error(err))

	return nil
}

func (r *LogReporter) ReportBacktest(summary types.BacktestSummary) error {
	r.log.Info("Backtest finished",
		zap.String("run_id", summary.RunID),
		zap.String("symbol", summary.Symbol),
		zap.Int("period", summary.Period),
		zap.Int("trade_count", summary.TradeCount),
		zap.String("initial_cash", summary.InitialCash.String()),
		zap.String("final_value", summary.FinalValue.StringFixed(AverageDisplayPlaces)),
		zap.String("profit", summary.Profit.StringFixed(AverageDisplayPlaces)),
	)

	return nil
}
