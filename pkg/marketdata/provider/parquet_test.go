package provider

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata/writer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ParquetProviderTestSuite struct {
	suite.Suite
	path     string
	provider *ParquetProvider
}

func TestParquetProviderSuite(t *testing.T) {
	suite.Run(t, new(ParquetProviderTestSuite))
}

func (suite *ParquetProviderTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "bars.parquet")

	w := writer.NewDuckDBWriter(suite.path, "1d")
	suite.Require().NoError(w.Initialize())

	defer w.Close()

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		suite.Require().NoError(w.Write("COMPUSDT", types.Bar{
			Date:  start.AddDate(0, 0, i),
			Close: decimal.NewFromInt(int64(40 + i)),
		}))
	}

	suite.Require().NoError(w.Write("ETHUSDT", types.Bar{Date: start, Close: decimal.NewFromInt(1200)}))

	_, err := w.Finalize()
	suite.Require().NoError(err)

	suite.provider, err = NewParquetProvider(suite.path)
	suite.Require().NoError(err)
}

func (suite *ParquetProviderTestSuite) TearDownTest() {
	if suite.provider != nil {
		suite.NoError(suite.provider.Close())
	}
}

func (suite *ParquetProviderTestSuite) TestFetchDailyBars() {
	series, err := suite.provider.FetchDailyBars(context.Background(), "COMPUSDT", "1d")
	suite.Require().NoError(err)

	suite.Equal(10, series.Len())

	latest, _ := series.Latest()
	suite.Equal(time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), latest.Date)
	suite.True(latest.Close.Equal(decimal.NewFromInt(49)))
}

func (suite *ParquetProviderTestSuite) TestFetchBarsRange() {
	series, err := suite.provider.FetchBarsRange(context.Background(), "COMPUSDT", "1d",
		time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.Equal(3, series.Len())

	first, _ := series.First()
	suite.True(first.Close.Equal(decimal.NewFromInt(42)))

	_, err = suite.provider.FetchBarsRange(context.Background(), "COMPUSDT", "1d",
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange))
}

func (suite *ParquetProviderTestSuite) TestUnknownSymbol() {
	_, err := suite.provider.FetchDailyBars(context.Background(), "DOGEUSDT", "1d")
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))

	_, err = suite.provider.CurrentPrice(context.Background(), "DOGEUSDT")
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}

func (suite *ParquetProviderTestSuite) TestCurrentPrice() {
	price, err := suite.provider.CurrentPrice(context.Background(), "COMPUSDT")
	suite.Require().NoError(err)
	suite.True(price.Equal(decimal.NewFromInt(49)))
}

func (suite *ParquetProviderTestSuite) TestUniverse() {
	symbols, err := suite.provider.Universe(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]string{"COMPUSDT", "ETHUSDT"}, symbols)
	suite.Equal(suite.path, suite.provider.Path())
}

func (suite *ParquetProviderTestSuite) TestMissingFile() {
	_, err := NewParquetProvider(filepath.Join(suite.T().TempDir(), "missing.parquet"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewParquetProvider("")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ParquetProviderTestSuite) TestGranularityMismatch() {
	path := filepath.Join(suite.T().TempDir(), "bars_4h.parquet")

	w := writer.NewDuckDBWriter(path, "4h")
	suite.Require().NoError(w.Initialize())

	defer w.Close()

	// six 4h bars fall on one calendar day
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		suite.Require().NoError(w.Write("BTCUSDT", types.Bar{
			Date:  start.Add(time.Duration(i) * 4 * time.Hour),
			Close: decimal.NewFromInt(int64(16000 + i)),
		}))
	}

	_, err := w.Finalize()
	suite.Require().NoError(err)

	intraday, err := NewParquetProvider(path)
	suite.Require().NoError(err)

	defer intraday.Close()

	_, err = intraday.FetchDailyBars(context.Background(), "BTCUSDT", "1d")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidGranularity))
	suite.Contains(err.Error(), "holds 4h bars")
	suite.False(errors.IsSkippable(err))

	series, err := intraday.FetchDailyBars(context.Background(), "BTCUSDT", "4h")
	suite.Require().NoError(err)
	suite.Equal(12, series.Len())
	suite.Equal("4h", series.Granularity())
}

func (suite *ParquetProviderTestSuite) TestFileWithoutGranularityColumn() {
	path := filepath.Join(suite.T().TempDir(), "plain.parquet")

	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)

	defer db.Close()

	_, err = db.Exec(`COPY (
		SELECT TIMESTAMP '2023-01-01' + to_days(CAST(i AS INTEGER)) AS time,
			'COMPUSDT' AS symbol,
			CAST(40 + i AS DOUBLE) AS close
		FROM range(5) t(i)
	) TO '` + path + `' (FORMAT PARQUET)`)
	suite.Require().NoError(err)

	plain, err := NewParquetProvider(path)
	suite.Require().NoError(err)

	defer plain.Close()

	suite.False(plain.hasGranularity)

	series, err := plain.FetchDailyBars(context.Background(), "COMPUSDT", "1d")
	suite.Require().NoError(err)
	suite.Equal(5, series.Len())
}

func (suite *ParquetProviderTestSuite) TestReadFailuresAreSkippable() {
	suite.True(suite.provider.hasGranularity)

	// the connection drops under the provider
	suite.Require().NoError(suite.provider.db.Close())

	_, err := suite.provider.FetchDailyBars(context.Background(), "COMPUSDT", "1d")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
	suite.True(errors.IsSkippable(err))
	suite.Contains(err.Error(), "COMPUSDT")

	_, err = suite.provider.CurrentPrice(context.Background(), "COMPUSDT")
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))

	suite.provider.db = nil
}

func (suite *ParquetProviderTestSuite) TestClosedProvider() {
	suite.Require().NoError(suite.provider.Close())

	_, err := suite.provider.FetchDailyBars(context.Background(), "COMPUSDT", "1d")
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))

	_, err = suite.provider.CurrentPrice(context.Background(), "COMPUSDT")
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))

	_, err = suite.provider.Universe(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}
