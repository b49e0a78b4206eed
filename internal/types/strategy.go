package types

// StrategyType names a scan strategy.
type StrategyType string

const (
	StrategyTypeSingleMA     StrategyType = "single_ma"
	StrategyTypeBullishStack StrategyType = "bullish_stack"
)

// AllStrategyTypes lists every built-in strategy name.
var AllStrategyTypes = []StrategyType{StrategyTypeSingleMA, StrategyTypeBullishStack}
