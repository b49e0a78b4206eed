package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Trade is one executed backtest fill. A BUY converts all cash into Quantity;
// a SELL converts all held quantity into Cash.
type Trade struct {
	Date  time.Time       `yaml:"date" json:"date"`
	Side  TradeSide       `yaml:"side" json:"side"`
	Price decimal.Decimal `yaml:"price" json:"price"`
	// Average is the moving average the price was compared against
	Average decimal.Decimal `yaml:"average" json:"average"`
	// Cash is the cash balance after the trade
	Cash decimal.Decimal `yaml:"cash" json:"cash"`
	// Quantity is the held quantity after the trade
	Quantity decimal.Decimal `yaml:"quantity" json:"quantity"`
}
