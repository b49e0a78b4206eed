package provider

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParquetProvider reads bars from a parquet file written by the download
// command, or any parquet file with time, symbol and close columns. When the
// file carries a granularity column, reads at any other granularity fail.
type ParquetProvider struct {
	db             *sql.DB
	sq             squirrel.StatementBuilderType
	path           string
	hasGranularity bool
}

func NewParquetProvider(path string) (*ParquetProvider, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "parquet path is required")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "parquet file %s is not readable", path)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataUnavailable, "failed to open DuckDB connection", err)
	}

	// Squirrel has no CREATE VIEW
	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM read_parquet('%s');`, strings.ReplaceAll(path, "'", "''"))
	if _, err := db.Exec(query); err != nil {
		db.Close()

		return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to read parquet file %s", path)
	}

	columns, err := viewColumns(db)
	if err != nil {
		db.Close()

		return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to read columns of %s", path)
	}

	_, hasGranularity := columns["granularity"]

	return &ParquetProvider{
		db:             db,
		sq:             squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		path:           path,
		hasGranularity: hasGranularity,
	}, nil
}

func viewColumns(db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.Query(`SELECT * FROM market_data LIMIT 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	columns := make(map[string]struct{}, len(names))
	for _, name := range names {
		columns[name] = struct{}{}
	}

	return columns, nil
}

// Path returns the parquet file being read.
func (p *ParquetProvider) Path() string {
	return p.path
}

func (p *ParquetProvider) FetchDailyBars(ctx context.Context, symbol string, granularity string) (types.BarSeries, error) {
	return p.readBars(ctx, symbol, granularity, optional.None[time.Time](), optional.None[time.Time]())
}

func (p *ParquetProvider) FetchBarsRange(ctx context.Context, symbol string, granularity string, start time.Time, end time.Time) (types.BarSeries, error) {
	if end.Before(start) {
		return types.BarSeries{}, errors.Newf(errors.ErrCodeInvalidDateRange, "end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	return p.readBars(ctx, symbol, granularity, optional.Some(start), optional.Some(end))
}

// CurrentPrice is the last close in the file. Offline data has no live price.
func (p *ParquetProvider) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if p.db == nil {
		return decimal.Zero, p.closedError()
	}

	query, args, err := p.sq.
		Select("close").
		From("market_data").
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return decimal.Zero, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var closePrice float64

	err = p.db.QueryRowContext(ctx, query, args...).Scan(&closePrice)
	if err == sql.ErrNoRows {
		return decimal.Zero, errors.Newf(errors.ErrCodeNoDataFound, "no bars for %s in %s", symbol, p.path)
	}

	if err != nil {
		return decimal.Zero, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to query latest close for %s", symbol)
	}

	return decimal.NewFromFloat(closePrice), nil
}

// Universe lists every symbol present in the file.
func (p *ParquetProvider) Universe(ctx context.Context) ([]string, error) {
	if p.db == nil {
		return nil, p.closedError()
	}

	query, args, err := p.sq.
		Select("DISTINCT symbol").
		From("market_data").
		OrderBy("symbol").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	symbols := make([]string, 0)

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate symbols", err)
	}

	return symbols, nil
}

func (p *ParquetProvider) closedError() error {
	return errors.Newf(errors.ErrCodeDataUnavailable, "parquet provider for %s is closed", p.path)
}

// Close releases the DuckDB connection.
func (p *ParquetProvider) Close() error {
	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.db = nil

	return err
}

func (p *ParquetProvider) readBars(ctx context.Context, symbol string, granularity string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.BarSeries, error) {
	parsed, err := ParseGranularity(granularity)
	if err != nil {
		return types.BarSeries{}, err
	}

	if p.db == nil {
		return types.BarSeries{}, p.closedError()
	}

	columns := []string{"time", "close"}
	if p.hasGranularity {
		columns = append(columns, "granularity")
	}

	builder := p.sq.
		Select(columns...).
		From("market_data").
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("time ASC")

	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return types.BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return types.BarSeries{}, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to query bars for %s", symbol)
	}
	defer rows.Close()

	bars := make([]types.Bar, 0)
	// granularities stored for symbol other than the requested one
	others := make(map[string]struct{})

	for rows.Next() {
		var (
			barTime        time.Time
			closePrice     float64
			barGranularity sql.NullString
		)

		dest := []any{&barTime, &closePrice}
		if p.hasGranularity {
			dest = append(dest, &barGranularity)
		}

		if err := rows.Scan(dest...); err != nil {
			return types.BarSeries{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to scan bar", err)
		}

		if barGranularity.Valid && barGranularity.String != string(parsed) {
			others[barGranularity.String] = struct{}{}

			continue
		}

		bars = append(bars, types.Bar{Date: barTime.UTC(), Close: decimal.NewFromFloat(closePrice)})
	}

	if err := rows.Err(); err != nil {
		return types.BarSeries{}, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to iterate bars for %s", symbol)
	}

	if len(bars) == 0 && len(others) > 0 {
		stored := make([]string, 0, len(others))
		for label := range others {
			stored = append(stored, label)
		}

		sort.Strings(stored)

		return types.BarSeries{}, errors.Newf(errors.ErrCodeInvalidGranularity, "%s holds %s bars for %s, requested %s",
			p.path, strings.Join(stored, ", "), symbol, parsed)
	}

	if len(bars) == 0 {
		return types.BarSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no bars for %s in %s", symbol, p.path)
	}

	return types.NewBarSeries(symbol, string(parsed), bars)
}
