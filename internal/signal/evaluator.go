// Package signal classifies a price against moving averages. Every function
// here is pure: no logging, no I/O, no mutation of its inputs.
package signal

import (
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SingleResult is the outcome of comparing a price with one moving average.
type SingleResult struct {
	Type types.SignalType
	// Percent is (price - average) / price * 100 without rounding.
	Percent decimal.Decimal
}

// EvaluateSingle classifies price against one average: ABOVE when
// price >= average, BELOW otherwise.
func EvaluateSingle(price, average decimal.Decimal) (SingleResult, error) {
	if !price.IsPositive() {
		return SingleResult{}, errors.Newf(errors.ErrCodeInvalidPrice, "price must be positive, got %s", price.String())
	}

	signalType := types.SignalTypeBelow
	if price.GreaterThanOrEqual(average) {
		signalType = types.SignalTypeAbove
	}

	return SingleResult{
		Type:    signalType,
		Percent: price.Sub(average).Div(price).Mul(hundred),
	}, nil
}

// EvaluateStack reports BULLISH_ALIGNED iff price > short >= medium >= long.
// Price must strictly clear the short average while the averages themselves
// only need to be non-increasing from short to long.
func EvaluateStack(price, short, medium, long decimal.Decimal) types.SignalType {
	if price.GreaterThan(short) && short.GreaterThanOrEqual(medium) && medium.GreaterThanOrEqual(long) {
		return types.SignalTypeBullishAligned
	}

	return types.SignalTypeNone
}

// RoundPercent rounds a percentage to two places for display.
func RoundPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Round(2)
}
