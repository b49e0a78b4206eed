// Package strategy holds the built-in scan strategies. A strategy turns a
// fetched bar series and a current price into a signal record.
package strategy

import (
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/shopspring/decimal"
)

// Strategy evaluates one instrument.
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() types.StrategyType
	// RequiredBars is the minimum series length Evaluate accepts.
	RequiredBars() int
	// Evaluate classifies price against averages computed over series.
	// Series shorter than RequiredBars yield an InsufficientDataError.
	Evaluate(series types.BarSeries, price decimal.Decimal) (types.SignalRecord, error)
}

// Params configures a strategy built through the registry. Each strategy reads
// only the fields it needs; zero fields fall back to defaults.
type Params struct {
	Period int `yaml:"period" json:"period,omitempty" jsonschema:"title=Period,description=Look-back of the single moving average,minimum=1,default=30"`
	Short  int `yaml:"short" json:"short,omitempty" jsonschema:"title=Short Period,description=Shortest average of the bullish stack,minimum=1,default=10"`
	Medium int `yaml:"medium" json:"medium,omitempty" jsonschema:"title=Medium Period,description=Middle average of the bullish stack,minimum=1,default=30"`
	Long   int `yaml:"long" json:"long,omitempty" jsonschema:"title=Long Period,description=Longest average of the bullish stack,minimum=1,default=120"`
}

const (
	DefaultPeriod = 30
	DefaultShort  = 10
	DefaultMedium = 30
	DefaultLong   = 120
)

func orDefault(value, fallback int) int {
	if value == 0 {
		return fallback
	}

	return value
}
