package report

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-ma/internal/logger"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"go.uber.org/zap"
)

const (
	signalsFileName  = "signals.parquet"
	failuresFileName = "failures.parquet"
)

// ParquetReporter records scan outcomes in an in-memory DuckDB database and
// exports them as parquet files. Backtest summaries are logged only.
type ParquetReporter struct {
	mu  sync.Mutex
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

// NewParquetReporter opens the in-memory database and creates its tables.
func NewParquetReporter(log *logger.Logger) (*ParquetReporter, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to connect to database", err)
	}

	reporter := &ParquetReporter{
		mu:  sync.Mutex{},
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := reporter.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return reporter, nil
}

func (r *ParquetReporter) initialize() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS signals (
			symbol TEXT,
			strategy TEXT,
			granularity TEXT,
			price DOUBLE,
			averages TEXT,
			type TEXT,
			percent DOUBLE,
			hit BOOLEAN,
			evaluated_at TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create signals table", err)
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS failures (
			symbol TEXT,
			error TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create failures table", err)
	}

	return nil
}

func (r *ParquetReporter) ReportSignal(record types.SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := NewSignalView(record)

	var percent sql.NullFloat64
	if record.Percent.IsSome() {
		percent = sql.NullFloat64{Float64: record.Percent.Unwrap().InexactFloat64(), Valid: true}
	}

	averages := ""
	for i, average := range record.Averages {
		if i > 0 {
			averages += ","
		}

		averages += fmt.Sprintf("%s=%s", AverageLabel(average.Period), view.Averages[AverageLabel(average.Period)])
	}

	_, err := r.sq.
		Insert("signals").
		Columns("symbol", "strategy", "granularity", "price", "averages", "type", "percent", "hit", "evaluated_at").
		Values(view.Symbol, view.Strategy, view.Granularity, record.Price.InexactFloat64(), averages, view.Type, percent, view.Hit, view.EvaluatedAt).
		RunWith(r.db).
		Exec()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to record signal for %s", record.Symbol)
	}

	return nil
}

func (r *ParquetReporter) ReportFailure(symbol string, failure error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message := ""
	if failure != nil {
		message = failure.Error()
	}

	_, err := r.sq.
		Insert("failures").
		Columns("symbol", "error").
		Values(symbol, message).
		RunWith(r.db).
		Exec()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to record failure for %s", symbol)
	}

	return nil
}

func (r *ParquetReporter) ReportBacktest(summary types.BacktestSummary) error {
	r.log.Debug("Parquet reporter ignores backtest summaries", zap.String("run_id", summary.RunID))

	return nil
}

// Count returns the number of recorded signals and failures.
func (r *ParquetReporter) Count() (signals int, failures int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.QueryRow(`SELECT COUNT(*) FROM signals`).Scan(&signals); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count signals", err)
	}

	if err := r.db.QueryRow(`SELECT COUNT(*) FROM failures`).Scan(&failures); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count failures", err)
	}

	return signals, failures, nil
}

// Write exports signals.parquet and failures.parquet into dir.
func (r *ParquetReporter) Write(dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create directory %s", dir)
	}

	signalsPath := filepath.Join(dir, signalsFileName)

	_, err := r.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM signals ORDER BY symbol) TO '%s' (FORMAT PARQUET)`, signalsPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to export signals to parquet", err)
	}

	failuresPath := filepath.Join(dir, failuresFileName)

	_, err = r.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM failures ORDER BY symbol) TO '%s' (FORMAT PARQUET)`, failuresPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to export failures to parquet", err)
	}

	r.log.Info("Exported scan report",
		zap.String("signals", signalsPath),
		zap.String("failures", failuresPath),
	)

	return nil
}

// Close closes the database connection.
func (r *ParquetReporter) Close() error {
	if r == nil || r.db == nil {
		return nil
	}

	return r.db.Close()
}
