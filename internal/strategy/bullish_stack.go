package strategy

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ma/internal/indicator"
	"github.com/rxtech-lab/argo-ma/internal/signal"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
)

// BullishStack reports BULLISH_ALIGNED when price sits above three trailing
// averages that are themselves stacked short >= medium >= long.
type BullishStack struct {
	short  *indicator.MA
	medium *indicator.MA
	long   *indicator.MA
}

// NewBullishStack requires 0 < short < medium < long.
func NewBullishStack(short, medium, long int) (*BullishStack, error) {
	if short <= 0 || !(short < medium && medium < long) {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"bullish stack periods must satisfy 0 < short < medium < long, got %d/%d/%d", short, medium, long)
	}

	shortMA, err := indicator.NewMA(short)
	if err != nil {
		return nil, err
	}

	mediumMA, err := indicator.NewMA(medium)
	if err != nil {
		return nil, err
	}

	longMA, err := indicator.NewMA(long)
	if err != nil {
		return nil, err
	}

	return &BullishStack{short: shortMA, medium: mediumMA, long: longMA}, nil
}

func (b *BullishStack) Name() types.StrategyType {
	return types.StrategyTypeBullishStack
}

func (b *BullishStack) RequiredBars() int {
	return b.long.Period()
}

// Periods returns short, medium and long.
func (b *BullishStack) Periods() (int, int, int) {
	return b.short.Period(), b.medium.Period(), b.long.Period()
}

func (b *BullishStack) Evaluate(series types.BarSeries, price decimal.Decimal) (types.SignalRecord, error) {
	if !price.IsPositive() {
		return types.SignalRecord{}, errors.Newf(errors.ErrCodeInvalidPrice, "price must be positive, got %s", price.String())
	}

	averages := make([]types.AverageValue, 0, 3)

	for _, ma := range []*indicator.MA{b.short, b.medium, b.long} {
		value, err := ma.Trailing(series)
		if err != nil {
			return types.SignalRecord{}, err
		}

		averages = append(averages, types.AverageValue{Period: ma.Period(), Value: value})
	}

	return types.SignalRecord{
		Symbol:      series.Symbol(),
		Granularity: series.Granularity(),
		Strategy:    b.Name(),
		Price:       price,
		Averages:    averages,
		Type:        signal.EvaluateStack(price, averages[0].Value, averages[1].Value, averages[2].Value),
		Percent:     optional.None[decimal.Decimal](),
		EvaluatedAt: time.Now().UTC(),
	}, nil
}
