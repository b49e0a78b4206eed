package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
	ProviderParquet ProviderType = "parquet"
)

type OnDownloadProgress = func(current float64, total float64, message string)

// Provider fetches close prices for one instrument at a time.
// Failures reaching the data source are ErrCodeDataUnavailable; a response
// that cannot be parsed is ErrCodeMarketDataParseFailed.
type Provider interface {
	// FetchDailyBars returns the most recent bars the source serves for symbol.
	// The latest bar may still be forming.
	FetchDailyBars(ctx context.Context, symbol string, granularity string) (types.BarSeries, error)
	// FetchBarsRange returns bars whose open time lies in [start, end].
	FetchBarsRange(ctx context.Context, symbol string, granularity string, start time.Time, end time.Time) (types.BarSeries, error)
	// CurrentPrice returns the live last price for symbol.
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// UniverseSource lists the instruments a batch scan should cover.
type UniverseSource interface {
	Universe(ctx context.Context) ([]string, error)
}

// HistorySizer is implemented by providers whose FetchDailyBars window can be
// widened for long look-back periods.
type HistorySizer interface {
	// EnsureHistory makes FetchDailyBars return at least bars bars when the
	// source has them. Asking for more than the source can serve in one
	// fetch is ErrCodeInvalidParameter.
	EnsureHistory(bars int) error
}

// MaxHistoryBars is the longest series FetchDailyBars can return for
// providerType. capped is false when the provider has no fixed limit.
func MaxHistoryBars(providerType ProviderType) (limit int, capped bool) {
	if providerType == ProviderBinance {
		return binanceMaxKlines, true
	}

	return 0, false
}

// Config selects and configures a provider.
type Config struct {
	PolygonApiKey string
	// ParquetPath is the file read by the parquet provider
	ParquetPath string
}

// NewMarketDataProvider creates a market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, config Config) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		return NewPolygonClient(config.PolygonApiKey)
	case ProviderParquet:
		parquetProvider, err := NewParquetProvider(config.ParquetPath)
		if err != nil {
			return nil, err
		}

		return parquetProvider, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
