package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-ma/internal/logger"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// ProviderType re-exports provider.ProviderType for callers of this package.
type ProviderType = provider.ProviderType

const (
	ProviderPolygon = provider.ProviderPolygon
	ProviderBinance = provider.ProviderBinance
)

// WriterType defines the type of market data writer.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  ProviderType `validate:"required,oneof=polygon binance"`
	WriterType    WriterType   `validate:"required,oneof=duckdb"`
	DataPath      string       `validate:"required"`
	PolygonApiKey string       `validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Symbol      string    `validate:"required"`
	StartDate   time.Time `validate:"required"`
	EndDate     time.Time `validate:"required,gtefield=StartDate"`
	Granularity string    `validate:"required"`
}

// Client downloads bars from a provider and stores them through a writer.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	log        *logger.Logger
	newWriter  func(outputPath string, granularity string) writer.MarketDataWriter
}

// NewClient creates a market data client for the configured provider.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, provider.Config{
		PolygonApiKey: config.PolygonApiKey,
		ParquetPath:   "",
	})
	if err != nil {
		return nil, err
	}

	return NewClientWithProvider(config, marketProvider, onProgress, log)
}

// NewClientWithProvider creates a client over an already constructed provider.
func NewClientWithProvider(config ClientConfig, marketProvider provider.Provider, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	if onProgress == nil {
		onProgress = func(float64, float64, string) {}
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
		log:        log,
		newWriter:  writer.NewDuckDBWriter,
	}, nil
}

// Download fetches bars for the requested range and writes them to a parquet
// file under DataPath. It returns the written file path.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	series, err := c.provider.FetchBarsRange(ctx, params.Symbol, params.Granularity, params.StartDate, params.EndDate)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s bars", params.Symbol)
	}

	if series.Len() == 0 {
		return "", errors.Newf(errors.ErrCodeNoDataFound, "no bars for %s between %s and %s",
			params.Symbol, params.StartDate.Format(time.DateOnly), params.EndDate.Format(time.DateOnly))
	}

	marketWriter, err := c.setupWriter(params)
	if err != nil {
		return "", err
	}

	defer func() {
		if err := marketWriter.Close(); err != nil {
			c.log.Warn("Failed to close writer", zap.Error(err))
		}
	}()

	total := float64(series.Len())
	for i, bar := range series.Bars() {
		if err := marketWriter.Write(params.Symbol, bar); err != nil {
			return "", err
		}

		c.onProgress(float64(i+1), total, fmt.Sprintf("Writing %s bars", params.Symbol))
	}

	outputPath, err := marketWriter.Finalize()
	if err != nil {
		return "", err
	}

	c.log.Info("Downloaded market data",
		zap.String("symbol", params.Symbol),
		zap.String("granularity", params.Granularity),
		zap.Int("bars", series.Len()),
		zap.String("path", outputPath),
	)

	return outputPath, nil
}

// setupWriter creates the output directory and an initialized writer.
func (c *Client) setupWriter(params DownloadParams) (writer.MarketDataWriter, error) {
	switch c.config.WriterType {
	case WriterDuckDB:
		// SYMBOL_START_END_GRANULARITY.parquet
		outputFileName := fmt.Sprintf("%s_%s_%s_%s.parquet",
			params.Symbol,
			params.StartDate.Format(time.DateOnly),
			params.EndDate.Format(time.DateOnly),
			params.Granularity)
		outputPath := filepath.Join(c.config.DataPath, outputFileName)

		if err := os.MkdirAll(c.config.DataPath, 0o755); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create data path %s", c.config.DataPath)
		}

		duckdbWriter := c.newWriter(outputPath, params.Granularity)
		if err := duckdbWriter.Initialize(); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to initialize DuckDB writer at %s", outputPath)
		}

		return duckdbWriter, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported writer type: %s", c.config.WriterType)
	}
}
