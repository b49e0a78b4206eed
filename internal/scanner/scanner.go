// Package scanner evaluates a strategy across many instruments. Instruments
// are fetched by a bounded pool of workers that share one rate limiter; an
// instrument that cannot be evaluated is recorded as a failure and the scan
// moves on.
package scanner

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ma/internal/logger"
	"github.com/rxtech-lab/argo-ma/internal/report"
	"github.com/rxtech-lab/argo-ma/internal/strategy"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata/provider"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// OnProgress is called after each instrument finishes, successfully or not.
type OnProgress func(done int, total int, symbol string)

// ScanFailure is an instrument the scan skipped.
type ScanFailure struct {
	Symbol string
	Err    error
}

// Result holds every evaluated record and every skipped instrument, both
// sorted by symbol.
type Result struct {
	Records  []types.SignalRecord
	Failures []ScanFailure
}

// Hits returns the records classified ABOVE or BULLISH_ALIGNED.
func (r Result) Hits() []types.SignalRecord {
	var hits []types.SignalRecord

	for _, record := range r.Records {
		if record.IsHit() {
			hits = append(hits, record)
		}
	}

	return hits
}

type Scanner struct {
	provider provider.Provider
	reporter report.Reporter
	log      *logger.Logger
	limiter  *rate.Limiter
	config   Config
	now      func() time.Time
}

// NewScanner validates config and builds a scanner reporting to reporter.
func NewScanner(marketProvider provider.Provider, reporter report.Reporter, config Config, log *logger.Logger) (*Scanner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	if reporter == nil {
		reporter = report.NewLogReporter(log)
	}

	return &Scanner{
		provider: marketProvider,
		reporter: reporter,
		log:      log,
		limiter:  rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		config:   config,
		now:      time.Now,
	}, nil
}

// Symbols returns the configured symbol list, or the universe of source when
// none is configured.
func (s *Scanner) Symbols(ctx context.Context, source provider.UniverseSource) ([]string, error) {
	if len(s.config.Symbols) > 0 {
		return s.config.Symbols, nil
	}

	if source == nil {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration,
			"provider %s cannot list instruments, configure symbols explicitly", s.config.Provider)
	}

	var symbols []string

	err := s.retry(ctx, "universe", func() error {
		var err error

		symbols, err = source.Universe(ctx)

		return err
	})
	if err != nil {
		return nil, err
	}

	return symbols, nil
}

// Scan evaluates strat for every symbol. Instruments failing with a skippable
// error are reported and collected as failures. Cancelling ctx aborts the
// whole scan with ErrCodeScanAborted and no partial result.
func (s *Scanner) Scan(ctx context.Context, strat strategy.Strategy, symbols []string, onProgress optional.Option[OnProgress]) (Result, error) {
	if err := s.sizeHistory(strat); err != nil {
		return Result{}, err
	}

	symbols = dedupe(symbols)
	total := len(symbols)

	records := make([]optional.Option[types.SignalRecord], total)
	failures := make([]optional.Option[ScanFailure], total)

	var (
		mu   sync.Mutex
		done int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.config.Workers)

	for i, symbol := range symbols {
		group.Go(func() error {
			record, err := s.scanOne(groupCtx, strat, symbol)

			switch {
			case err == nil:
				records[i] = optional.Some(record)

				if reportErr := s.reporter.ReportSignal(record); reportErr != nil {
					return errors.Wrapf(errors.ErrCodeUnknown, reportErr, "failed to report signal for %s", symbol)
				}
			case isSkippable(err):
				failures[i] = optional.Some(ScanFailure{Symbol: symbol, Err: err})

				if reportErr := s.reporter.ReportFailure(symbol, err); reportErr != nil {
					return errors.Wrapf(errors.ErrCodeUnknown, reportErr, "failed to report failure for %s", symbol)
				}
			default:
				return err
			}

			if onProgress.IsSome() {
				mu.Lock()
				done++
				current := done
				mu.Unlock()

				onProgress.Unwrap()(current, total, symbol)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, errors.Wrap(errors.ErrCodeScanAborted, "scan aborted", ctxErr)
		}

		return Result{}, err
	}

	result := Result{Records: nil, Failures: nil}

	for i := range symbols {
		if records[i].IsSome() {
			result.Records = append(result.Records, records[i].Unwrap())
		}

		if failures[i].IsSome() {
			result.Failures = append(result.Failures, failures[i].Unwrap())
		}
	}

	sort.SliceStable(result.Records, func(i, j int) bool { return result.Records[i].Symbol < result.Records[j].Symbol })
	sort.SliceStable(result.Failures, func(i, j int) bool { return result.Failures[i].Symbol < result.Failures[j].Symbol })

	s.log.Info("Scan finished",
		zap.String("strategy", string(strat.Name())),
		zap.Int("instruments", total),
		zap.Int("evaluated", len(result.Records)),
		zap.Int("hits", len(result.Hits())),
		zap.Int("skipped", len(result.Failures)),
	)

	return result, nil
}

// sizeHistory widens the provider's fetch window to the bars strat needs.
func (s *Scanner) sizeHistory(strat strategy.Strategy) error {
	sizer, ok := s.provider.(provider.HistorySizer)
	if !ok {
		return nil
	}

	return sizer.EnsureHistory(strat.RequiredBars())
}

func (s *Scanner) scanOne(ctx context.Context, strat strategy.Strategy, symbol string) (types.SignalRecord, error) {
	var series types.BarSeries

	err := s.retry(ctx, symbol, func() error {
		var err error

		series, err = s.provider.FetchDailyBars(ctx, symbol, s.config.Granularity)

		return err
	})
	if err != nil {
		return types.SignalRecord{}, err
	}

	price, err := s.price(ctx, symbol, series)
	if err != nil {
		return types.SignalRecord{}, err
	}

	return strat.Evaluate(series, price)
}

func (s *Scanner) price(ctx context.Context, symbol string, series types.BarSeries) (decimal.Decimal, error) {
	if s.config.UsePreviousClose {
		return series.PreviousClose(s.now())
	}

	var price decimal.Decimal

	err := s.retry(ctx, symbol, func() error {
		var err error

		price, err = s.provider.CurrentPrice(ctx, symbol)

		return err
	})

	return price, err
}

// retry paces every attempt through the shared limiter and retries only
// transient provider failures.
func (s *Scanner) retry(ctx context.Context, symbol string, call func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.config.RetryInterval
	policy.MaxElapsedTime = 0

	operation := func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		err := call()
		if err == nil {
			return nil
		}

		if !errors.HasCode(err, errors.ErrCodeDataUnavailable) {
			return backoff.Permanent(err)
		}

		return err
	}

	notify := func(err error, wait time.Duration) {
		s.log.Debug("Retrying provider call",
			zap.String("symbol", symbol),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.config.MaxRetries)), ctx)

	return backoff.RetryNotify(operation, bounded, notify)
}

// isSkippable extends the shared skip policy with non-positive prices, which
// halted instruments report.
func isSkippable(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return errors.IsSkippable(err) || errors.HasCode(err, errors.ErrCodeInvalidPrice)
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	unique := make([]string, 0, len(symbols))

	for _, symbol := range symbols {
		if _, ok := seen[symbol]; ok {
			continue
		}

		seen[symbol] = struct{}{}
		unique = append(unique, symbol)
	}

	return unique
}
