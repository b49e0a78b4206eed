package types

import (
	"sort"
	"time"

	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
)

// GranularityDaily is the only granularity with calendar-day semantics.
const GranularityDaily = "1d"

// Bar is one period's price summary, reduced to its close.
type Bar struct {
	// Date is the bar's open time in UTC. Daily bars are truncated to midnight.
	Date  time.Time       `yaml:"date" json:"date"`
	Close decimal.Decimal `yaml:"close" json:"close"`
}

// BarSeries is an immutable, ascending, date-unique sequence of bars for one
// instrument. The zero value is an empty series.
type BarSeries struct {
	symbol      string
	granularity string
	bars        []Bar
	index       map[int64]int
}

// NewBarSeries validates and sorts bars into a series. Daily dates are
// normalized to UTC midnight before the uniqueness check. Duplicate dates and
// non-positive closes are rejected.
func NewBarSeries(symbol string, granularity string, bars []Bar) (BarSeries, error) {
	if granularity == "" {
		granularity = GranularityDaily
	}

	sorted := make([]Bar, len(bars))
	for i, bar := range bars {
		if !bar.Close.IsPositive() {
			return BarSeries{}, errors.Newf(errors.ErrCodeInvalidBar, "close for %s at %s must be positive, got %s", symbol, bar.Date.Format(time.RFC3339), bar.Close.String())
		}

		sorted[i] = Bar{Date: normalizeDate(granularity, bar.Date), Close: bar.Close}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	index := make(map[int64]int, len(sorted))
	for i, bar := range sorted {
		key := bar.Date.Unix()
		if _, exists := index[key]; exists {
			return BarSeries{}, errors.Newf(errors.ErrCodeInvalidBar, "duplicate bar for %s at %s", symbol, bar.Date.Format(time.RFC3339))
		}

		index[key] = i
	}

	return BarSeries{
		symbol:      symbol,
		granularity: granularity,
		bars:        sorted,
		index:       index,
	}, nil
}

// Symbol returns the instrument symbol.
func (s BarSeries) Symbol() string {
	return s.symbol
}

// Granularity returns the granularity label the bars were fetched with.
func (s BarSeries) Granularity() string {
	if s.granularity == "" {
		return GranularityDaily
	}

	return s.granularity
}

// IsDaily reports whether the series carries daily bars.
func (s BarSeries) IsDaily() bool {
	return s.Granularity() == GranularityDaily
}

// Len returns the number of bars.
func (s BarSeries) Len() int {
	return len(s.bars)
}

// Bars returns a copy of the bars in ascending order.
func (s BarSeries) Bars() []Bar {
	out := make([]Bar, len(s.bars))
	copy(out, s.bars)

	return out
}

// At returns the i-th bar.
func (s BarSeries) At(i int) Bar {
	return s.bars[i]
}

// First returns the oldest bar.
func (s BarSeries) First() (Bar, bool) {
	if len(s.bars) == 0 {
		return Bar{}, false
	}

	return s.bars[0], true
}

// Latest returns the most recent bar.
func (s BarSeries) Latest() (Bar, bool) {
	if len(s.bars) == 0 {
		return Bar{}, false
	}

	return s.bars[len(s.bars)-1], true
}

// LastCloses returns the closes of the last n bars, oldest first.
func (s BarSeries) LastCloses(n int) []decimal.Decimal {
	if n > len(s.bars) {
		n = len(s.bars)
	}

	if n <= 0 {
		return nil
	}

	closes := make([]decimal.Decimal, 0, n)
	for _, bar := range s.bars[len(s.bars)-n:] {
		closes = append(closes, bar.Close)
	}

	return closes
}

// Has reports whether a close is recorded for date.
func (s BarSeries) Has(date time.Time) bool {
	_, ok := s.index[normalizeDate(s.Granularity(), date).Unix()]

	return ok
}

// CloseAt looks up the close recorded for date. A missing date is a
// MissingDateError, never a zero.
func (s BarSeries) CloseAt(date time.Time) (decimal.Decimal, error) {
	normalized := normalizeDate(s.Granularity(), date)

	i, ok := s.index[normalized.Unix()]
	if !ok {
		return decimal.Zero, errors.NewMissingDateError(s.symbol, normalized)
	}

	return s.bars[i].Close, nil
}

// CountBefore returns how many bars are dated strictly before date.
func (s BarSeries) CountBefore(date time.Time) int {
	normalized := normalizeDate(s.Granularity(), date)

	return sort.Search(len(s.bars), func(i int) bool {
		return !s.bars[i].Date.Before(normalized)
	})
}

// PreviousClose returns the close of the calendar day before now, i.e. the
// last completed daily candle.
func (s BarSeries) PreviousClose(now time.Time) (decimal.Decimal, error) {
	yesterday := TruncateToDay(now).AddDate(0, 0, -1)

	return s.CloseAt(yesterday)
}

// TruncateToDay returns UTC midnight of t's UTC calendar day.
func TruncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func normalizeDate(granularity string, t time.Time) time.Time {
	if granularity == GranularityDaily || granularity == "" {
		return TruncateToDay(t)
	}

	return t.UTC().Truncate(time.Second)
}
