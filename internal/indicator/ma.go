package indicator

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
)

// MA computes simple moving averages over a fixed period.
//
// It has two modes that are deliberately not interchangeable:
//   - Trailing: mean of the last period bars of the series, latest bar included.
//     Used by live scans on a freshly fetched series.
//   - AsOf: mean of the period calendar days strictly before a date, that
//     date's own close excluded. Used by the backtest.
type MA struct {
	period int
}

// NewMA creates a new MA for the given period.
func NewMA(period int) (*MA, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	return &MA{period: period}, nil
}

// Period returns the look-back period.
func (m *MA) Period() int {
	return m.period
}

// Name returns a display name such as "MA30".
func (m *MA) Name() string {
	return fmt.Sprintf("MA%d", m.period)
}

// Trailing is TrailingAverage with this MA's period.
func (m *MA) Trailing(series types.BarSeries) (decimal.Decimal, error) {
	return TrailingAverage(series, m.period)
}

// AsOf is AverageAsOf with this MA's period.
func (m *MA) AsOf(series types.BarSeries, asOf time.Time) (decimal.Decimal, error) {
	return AverageAsOf(series, m.period, asOf)
}

// TrailingAverage returns the arithmetic mean of the last period closes of the
// series, including the most recent bar.
func TrailingAverage(series types.BarSeries, period int) (decimal.Decimal, error) {
	if err := validatePeriod(period); err != nil {
		return decimal.Zero, err
	}

	if series.Len() < period {
		return decimal.Zero, errors.NewInsufficientDataErrorf(period, series.Len(), series.Symbol(),
			"insufficient data for %s MA%d: required %d bars, got %d", series.Symbol(), period, period, series.Len())
	}

	return calculateSimpleMovingAverage(series.LastCloses(period)), nil
}

// AverageAsOf returns the mean close of the period calendar days immediately
// preceding asOf. The close on asOf itself never contributes. Every one of
// those days must have a recorded close: a gap is a MissingDateError, never
// skipped or filled.
func AverageAsOf(series types.BarSeries, period int, asOf time.Time) (decimal.Decimal, error) {
	if err := validatePeriod(period); err != nil {
		return decimal.Zero, err
	}

	if !series.IsDaily() {
		return decimal.Zero, errors.Newf(errors.ErrCodeInvalidGranularity,
			"historical averages step by calendar day and need %s bars, got %s", types.GranularityDaily, series.Granularity())
	}

	reference := types.TruncateToDay(asOf)

	available := series.CountBefore(reference)
	if available < period {
		return decimal.Zero, errors.NewInsufficientDataErrorf(period, available, series.Symbol(),
			"insufficient data for %s MA%d as of %s: required %d bars, got %d",
			series.Symbol(), period, reference.Format("2006-01-02"), period, available)
	}

	sum := decimal.Zero

	for n := 1; n <= period; n++ {
		closePrice, err := series.CloseAt(reference.AddDate(0, 0, -n))
		if err != nil {
			return decimal.Zero, err
		}

		sum = sum.Add(closePrice)
	}

	return sum.Div(decimal.NewFromInt(int64(period))), nil
}

func calculateSimpleMovingAverage(closes []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range closes {
		sum = sum.Add(c)
	}

	return sum.Div(decimal.NewFromInt(int64(len(closes))))
}

func validatePeriod(period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return nil
}
