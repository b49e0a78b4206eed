package types

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// BacktestSummary is the reportable outcome of one backtest run.
type BacktestSummary struct {
	// RunID is the unique identifier for this backtest run.
	RunID string `yaml:"run_id" json:"run_id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Symbol of the trading pair.
	Symbol string `yaml:"symbol" json:"symbol"`
	// Period is the moving average look-back in days.
	Period int `yaml:"period" json:"period"`
	// StartDate and EndDate bound the replayed date range, inclusive.
	StartDate time.Time `yaml:"start_date" json:"start_date"`
	EndDate   time.Time `yaml:"end_date" json:"end_date"`
	// TradeCount counts every BUY and SELL.
	TradeCount  int             `yaml:"trade_count" json:"trade_count"`
	InitialCash decimal.Decimal `yaml:"initial_cash" json:"initial_cash"`
	// FinalValue is cash plus held quantity valued at the last processed close.
	FinalValue decimal.Decimal `yaml:"final_value" json:"final_value"`
	// Profit is FinalValue minus InitialCash.
	Profit decimal.Decimal `yaml:"profit" json:"profit"`
	// Trades is the trade log in execution order.
	Trades []Trade `yaml:"trades" json:"trades"`
}

// WriteBacktestSummary encodes the summary as YAML.
func WriteBacktestSummary(w io.Writer, summary BacktestSummary) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to marshal backtest summary to YAML: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush backtest summary: %w", err)
	}

	return nil
}
