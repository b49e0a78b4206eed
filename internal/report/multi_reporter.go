package report

import (
	stderrors "errors"

	"github.com/rxtech-lab/argo-ma/internal/types"
)

// MultiReporter fans every outcome out to several reporters. All reporters
// are called even when one fails; the failures are joined.
type MultiReporter struct {
	reporters []Reporter
}

func NewMultiReporter(reporters ...Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

func (m *MultiReporter) ReportSignal(record types.SignalRecord) error {
	var errs []error
	for _, reporter := range m.reporters {
		errs = append(errs, reporter.ReportSignal(record))
	}

	return stderrors.Join(errs...)
}

func (m *MultiReporter) ReportFailure(symbol string, err error) error {
	var errs []error
	for _, reporter := range m.reporters {
		errs = append(errs, reporter.ReportFailure(symbol, err))
	}

	return stderrors.Join(errs...)
}

func (m *MultiReporter) ReportBacktest(summary types.BacktestSummary) error {
	var errs []error
	for _, reporter := range m.reporters {
		errs = append(errs, reporter.ReportBacktest(summary))
	}

	return stderrors.Join(errs...)
}
