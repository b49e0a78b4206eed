// Package report delivers scan signals, scan failures and backtest summaries
// to their destinations: the structured log, a YAML document or a parquet file.
package report

import (
	"strconv"
	"time"

	"github.com/rxtech-lab/argo-ma/internal/types"
)

// Reporter receives scan and backtest outcomes. Implementations must be safe
// for concurrent use since scan workers report in parallel.
type Reporter interface {
	// ReportSignal records one evaluated instrument.
	ReportSignal(record types.SignalRecord) error
	// ReportFailure records an instrument the scan had to skip.
	ReportFailure(symbol string, err error) error
	// ReportBacktest records a finished backtest run.
	ReportBacktest(summary types.BacktestSummary) error
}

const (
	// AverageDisplayPlaces is how many decimals averages are shown with
	AverageDisplayPlaces = 4
	// PercentDisplayPlaces is how many decimals percentages are shown with
	PercentDisplayPlaces = 2
)

// SignalView is the display form of a SignalRecord. Values are rounded for
// presentation only.
type SignalView struct {
	Symbol      string            `yaml:"symbol" json:"symbol"`
	Strategy    string            `yaml:"strategy" json:"strategy"`
	Granularity string            `yaml:"granularity" json:"granularity"`
	Price       string            `yaml:"price" json:"price"`
	Averages    map[string]string `yaml:"averages" json:"averages"`
	Type        string            `yaml:"type" json:"type"`
	Percent     string            `yaml:"percent,omitempty" json:"percent,omitempty"`
	Hit         bool              `yaml:"hit" json:"hit"`
	EvaluatedAt time.Time         `yaml:"evaluated_at" json:"evaluated_at"`
}

// FailureView is the display form of a skipped instrument.
type FailureView struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	Error  string `yaml:"error" json:"error"`
}

// NewSignalView rounds a record for display.
func NewSignalView(record types.SignalRecord) SignalView {
	averages := make(map[string]string, len(record.Averages))
	for _, average := range record.Averages {
		averages[AverageLabel(average.Period)] = average.Value.StringFixed(AverageDisplayPlaces)
	}

	view := SignalView{
		Symbol:      record.Symbol,
		Strategy:    string(record.Strategy),
		Granularity: record.Granularity,
		Price:       record.Price.String(),
		Averages:    averages,
		Type:        string(record.Type),
		Percent:     "",
		Hit:         record.IsHit(),
		EvaluatedAt: record.EvaluatedAt,
	}

	if record.Percent.IsSome() {
		view.Percent = record.Percent.Unwrap().StringFixed(PercentDisplayPlaces)
	}

	return view
}

// AverageLabel names an average by its period, e.g. "MA30".
func AverageLabel(period int) string {
	return "MA" + strconv.Itoa(period)
}
