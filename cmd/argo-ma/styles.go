package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-ma/internal/report"
	"github.com/rxtech-lab/argo-ma/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HitStyle highlights instruments whose signal is a hit.
	HitStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

	// FaintStyle for everything that is not a hit.
	FaintStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for skipped instruments.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// FormatSignal renders one record on a single line, averages shortest first.
func FormatSignal(record types.SignalRecord) string {
	view := report.NewSignalView(record)

	parts := []string{
		fmt.Sprintf("%-14s", view.Symbol),
		"price=" + view.Price,
	}

	for _, average := range record.Averages {
		label := report.AverageLabel(average.Period)
		parts = append(parts, label+"="+view.Averages[label])
	}

	if view.Percent != "" {
		parts = append(parts, view.Percent+"%")
	}

	parts = append(parts, view.Type)
	line := strings.Join(parts, "  ")

	if view.Hit {
		return HitStyle.Render(line)
	}

	return FaintStyle.Render(line)
}

// FormatFailure renders one skipped instrument.
func FormatFailure(symbol string, err error) string {
	return ErrorStyle.Render(fmt.Sprintf("%-14s", symbol)) + "  " + err.Error()
}

// FormatSummary renders a backtest summary as a short block.
func FormatSummary(summary types.BacktestSummary) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("Backtest %s MA%d", summary.Symbol, summary.Period)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  range        %s .. %s\n", summary.StartDate.Format("2006-01-02"), summary.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "  trades       %d\n", summary.TradeCount)
	fmt.Fprintf(&b, "  initial cash %s\n", summary.InitialCash.String())
	fmt.Fprintf(&b, "  final value  %s\n", summary.FinalValue.StringFixed(report.AverageDisplayPlaces))

	profit := summary.Profit.StringFixed(report.AverageDisplayPlaces)
	if summary.Profit.IsPositive() {
		profit = HitStyle.Render(profit)
	} else if summary.Profit.IsNegative() {
		profit = ErrorStyle.Render(profit)
	}

	fmt.Fprintf(&b, "  profit       %s\n", profit)

	return b.String()
}
