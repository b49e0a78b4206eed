package report

import (
	"io"
	"os"
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Document is the YAML layout written by YAMLReporter.
type Document struct {
	Signals   []SignalView            `yaml:"signals,omitempty"`
	Failures  []FailureView           `yaml:"failures,omitempty"`
	Backtests []types.BacktestSummary `yaml:"backtests,omitempty"`
}

// YAMLReporter collects outcomes in memory and writes them as one YAML
// document. Signals and failures are sorted by symbol on write.
type YAMLReporter struct {
	mu  sync.Mutex
	doc Document
}

func NewYAMLReporter() *YAMLReporter {
	return &YAMLReporter{
		mu:  sync.Mutex{},
		doc: Document{Signals: nil, Failures: nil, Backtests: nil},
	}
}

func (r *YAMLReporter) ReportSignal(record types.SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.doc.Signals = append(r.doc.Signals, NewSignalView(record))

	return nil
}

func (r *YAMLReporter) ReportFailure(symbol string, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message := ""
	if err != nil {
		message = err.Error()
	}

	r.doc.Failures = append(r.doc.Failures, FailureView{Symbol: symbol, Error: message})

	return nil
}

func (r *YAMLReporter) ReportBacktest(summary types.BacktestSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.doc.Backtests = append(r.doc.Backtests, summary)

	return nil
}

// Document returns a sorted snapshot of everything reported so far.
func (r *YAMLReporter) Document() Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := Document{
		Signals:   append([]SignalView(nil), r.doc.Signals...),
		Failures:  append([]FailureView(nil), r.doc.Failures...),
		Backtests: append([]types.BacktestSummary(nil), r.doc.Backtests...),
	}

	sort.SliceStable(doc.Signals, func(i, j int) bool { return doc.Signals[i].Symbol < doc.Signals[j].Symbol })
	sort.SliceStable(doc.Failures, func(i, j int) bool { return doc.Failures[i].Symbol < doc.Failures[j].Symbol })

	return doc
}

// Write encodes the document to w.
func (r *YAMLReporter) Write(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(r.Document()); err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "failed to encode report", err)
	}

	if err := encoder.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "failed to flush report", err)
	}

	return nil
}

// WriteFile writes the document to path, replacing any existing file.
func (r *YAMLReporter) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeUnknown, err, "failed to create report file %s", path)
	}
	defer file.Close()

	return r.Write(file)
}
