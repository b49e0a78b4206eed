package strategy

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ma/internal/indicator"
	"github.com/rxtech-lab/argo-ma/internal/signal"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/shopspring/decimal"
)

// SingleMA compares price with one trailing moving average.
type SingleMA struct {
	ma *indicator.MA
}

func NewSingleMA(period int) (*SingleMA, error) {
	ma, err := indicator.NewMA(period)
	if err != nil {
		return nil, err
	}

	return &SingleMA{ma: ma}, nil
}

func (s *SingleMA) Name() types.StrategyType {
	return types.StrategyTypeSingleMA
}

func (s *SingleMA) RequiredBars() int {
	return s.ma.Period()
}

func (s *SingleMA) Period() int {
	return s.ma.Period()
}

func (s *SingleMA) Evaluate(series types.BarSeries, price decimal.Decimal) (types.SignalRecord, error) {
	average, err := s.ma.Trailing(series)
	if err != nil {
		return types.SignalRecord{}, err
	}

	result, err := signal.EvaluateSingle(price, average)
	if err != nil {
		return types.SignalRecord{}, err
	}

	return types.SignalRecord{
		Symbol:      series.Symbol(),
		Granularity: series.Granularity(),
		Strategy:    s.Name(),
		Price:       price,
		Averages:    []types.AverageValue{{Period: s.ma.Period(), Value: average}},
		Type:        result.Type,
		Percent:     optional.Some(result.Percent),
		EvaluatedAt: time.Now().UTC(),
	}, nil
}
