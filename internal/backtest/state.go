package backtest

import (
	"github.com/shopspring/decimal"
)

// PositionState is the single position the backtest can hold.
type PositionState string

const (
	PositionFlat PositionState = "FLAT"
	PositionLong PositionState = "LONG"
)

// State is the running long/flat position. After every transition at most one
// of cash and held is positive.
type State struct {
	position PositionState
	cash     decimal.Decimal
	held     decimal.Decimal
}

// NewState starts FLAT with all capital in cash.
func NewState(initialCash decimal.Decimal) *State {
	return &State{
		position: PositionFlat,
		cash:     initialCash,
		held:     decimal.Zero,
	}
}

func (s *State) Position() PositionState {
	return s.position
}

func (s *State) Cash() decimal.Decimal {
	return s.cash
}

func (s *State) Held() decimal.Decimal {
	return s.held
}

// Buy converts all cash into quantity at price. It reports false and does
// nothing unless the state is FLAT with cash to spend.
func (s *State) Buy(price decimal.Decimal) bool {
	if s.position != PositionFlat || !s.cash.IsPositive() {
		return false
	}

	s.held = s.cash.Div(price)
	s.cash = decimal.Zero
	s.position = PositionLong

	return true
}

// Sell converts all held quantity into cash at price. It reports false and
// does nothing unless the state is LONG with quantity to sell.
func (s *State) Sell(price decimal.Decimal) bool {
	if s.position != PositionLong || !s.held.IsPositive() {
		return false
	}

	s.cash = s.held.Mul(price)
	s.held = decimal.Zero
	s.position = PositionFlat

	return true
}

// Value marks the position to market at price.
func (s *State) Value(price decimal.Decimal) decimal.Decimal {
	return s.cash.Add(s.held.Mul(price))
}
