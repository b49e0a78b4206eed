package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

type SignalType string

const (
	// SignalTypeAbove means price is at or above the single moving average
	SignalTypeAbove SignalType = "ABOVE"
	// SignalTypeBelow means price is under the single moving average
	SignalTypeBelow SignalType = "BELOW"
	// SignalTypeBullishAligned means price > short >= medium >= long average
	SignalTypeBullishAligned SignalType = "BULLISH_ALIGNED"
	// SignalTypeNone means the triple-average stack is not aligned
	SignalTypeNone SignalType = "NONE"
)

// IsHit reports whether the classification is one a scan should surface.
func (s SignalType) IsHit() bool {
	return s == SignalTypeAbove || s == SignalTypeBullishAligned
}

// AverageValue is one moving average used by an evaluation.
type AverageValue struct {
	Period int
	Value  decimal.Decimal
}

// SignalRecord is the result of evaluating one instrument.
type SignalRecord struct {
	// Symbol is the instrument the signal was evaluated for
	Symbol string
	// Granularity is the bar granularity label the averages were computed on
	Granularity string
	// Strategy is the name of the strategy that produced the record
	Strategy StrategyType
	// Price is the current price compared against the averages
	Price decimal.Decimal
	// Averages holds every average used, shortest period first
	Averages []AverageValue
	// Type is the classification
	Type SignalType
	// Percent is (price - average) / price * 100, unrounded. Only set by the
	// single-average strategy.
	Percent optional.Option[decimal.Decimal]
	// EvaluatedAt is when the evaluation happened
	EvaluatedAt time.Time
}

// IsHit reports whether the record's classification should be surfaced.
func (r SignalRecord) IsHit() bool {
	return r.Type.IsHit()
}
