package provider

import (
	"context"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
)

// binanceMaxKlines is the largest page the klines endpoint serves.
const binanceMaxKlines = 1000

// BinanceAPIClient is the subset of the go-binance client used by BinanceClient.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
	NewListPricesService() BinanceListPricesService
	NewExchangeInfoService() BinanceExchangeInfoService
}

// BinanceKlinesService is the kline query builder.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceListPricesService is the ticker price query builder.
type BinanceListPricesService interface {
	Symbol(symbol string) BinanceListPricesService
	Do(ctx context.Context) ([]*binance.SymbolPrice, error)
}

// BinanceExchangeInfoService is the exchange info query.
type BinanceExchangeInfoService interface {
	Do(ctx context.Context) (*binance.ExchangeInfo, error)
}

type realBinanceClient struct {
	client *binance.Client
}

func (c *realBinanceClient) NewKlinesService() BinanceKlinesService {
	return &realBinanceKlinesService{service: c.client.NewKlinesService()}
}

func (c *realBinanceClient) NewListPricesService() BinanceListPricesService {
	return &realBinanceListPricesService{service: c.client.NewListPricesService()}
}

func (c *realBinanceClient) NewExchangeInfoService() BinanceExchangeInfoService {
	return &realBinanceExchangeInfoService{service: c.client.NewExchangeInfoService()}
}

type realBinanceKlinesService struct {
	service *binance.KlinesService
}

func (s *realBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.service.Symbol(symbol)

	return s
}

func (s *realBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.service.Interval(interval)

	return s
}

func (s *realBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.service.StartTime(startTime)

	return s
}

func (s *realBinanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.service.EndTime(endTime)

	return s
}

func (s *realBinanceKlinesService) Limit(limit int) BinanceKlinesService {
	s.service.Limit(limit)

	return s
}

func (s *realBinanceKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

type realBinanceListPricesService struct {
	service *binance.ListPricesService
}

func (s *realBinanceListPricesService) Symbol(symbol string) BinanceListPricesService {
	s.service.Symbol(symbol)

	return s
}

func (s *realBinanceListPricesService) Do(ctx context.Context) ([]*binance.SymbolPrice, error) {
	return s.service.Do(ctx)
}

type realBinanceExchangeInfoService struct {
	service *binance.ExchangeInfoService
}

func (s *realBinanceExchangeInfoService) Do(ctx context.Context) (*binance.ExchangeInfo, error) {
	return s.service.Do(ctx)
}

// BinanceClient serves spot klines, ticker prices and the USDT universe from
// the public Binance API. No credentials are needed.
type BinanceClient struct {
	apiClient BinanceAPIClient
	// klineLimit is the number of bars FetchDailyBars asks for
	klineLimit int
}

func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithAPI(&realBinanceClient{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a BinanceClient over any BinanceAPIClient.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient:  apiClient,
		klineLimit: 500,
	}
}

// SetKlineLimit changes how many recent bars FetchDailyBars requests.
func (c *BinanceClient) SetKlineLimit(limit int) {
	if limit > 0 && limit <= binanceMaxKlines {
		c.klineLimit = limit
	}
}

// EnsureHistory raises the kline limit to bars. It never lowers it.
func (c *BinanceClient) EnsureHistory(bars int) error {
	if bars > binanceMaxKlines {
		return errors.Newf(errors.ErrCodeInvalidParameter, "binance serves at most %d klines per request, %d required", binanceMaxKlines, bars)
	}

	if bars > c.klineLimit {
		c.klineLimit = bars
	}

	return nil
}

func (c *BinanceClient) FetchDailyBars(ctx context.Context, symbol string, granularity string) (types.BarSeries, error) {
	parsed, err := ParseGranularity(granularity)
	if err != nil {
		return types.BarSeries{}, err
	}

	klines, err := c.apiClient.NewKlinesService().
		Symbol(symbol).
		Interval(parsed.BinanceInterval()).
		Limit(c.klineLimit).
		Do(ctx)
	if err != nil {
		return types.BarSeries{}, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to fetch klines for %s from Binance", symbol)
	}

	bars, err := klinesToBars(symbol, klines)
	if err != nil {
		return types.BarSeries{}, err
	}

	return types.NewBarSeries(symbol, string(parsed), bars)
}

// FetchBarsRange pages through klines from start until end.
func (c *BinanceClient) FetchBarsRange(ctx context.Context, symbol string, granularity string, start time.Time, end time.Time) (types.BarSeries, error) {
	parsed, err := ParseGranularity(granularity)
	if err != nil {
		return types.BarSeries{}, err
	}

	if end.Before(start) {
		return types.BarSeries{}, errors.Newf(errors.ErrCodeInvalidDateRange, "end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	endMillis := end.UnixMilli()
	currentStart := start.UnixMilli()
	bars := make([]types.Bar, 0)

	for {
		klines, err := c.apiClient.NewKlinesService().
			Symbol(symbol).
			Interval(parsed.BinanceInterval()).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binanceMaxKlines).
			Do(ctx)
		if err != nil {
			return types.BarSeries{}, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to fetch klines for %s from Binance", symbol)
		}

		page, err := klinesToBars(symbol, klines)
		if err != nil {
			return types.BarSeries{}, err
		}

		bars = append(bars, page...)

		// a short page is the last page
		if len(klines) < binanceMaxKlines {
			break
		}

		// next page starts after the close of the last kline
		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart > endMillis {
			break
		}
	}

	return types.NewBarSeries(symbol, string(parsed), bars)
}

func (c *BinanceClient) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := c.apiClient.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to fetch ticker price for %s from Binance", symbol)
	}

	for _, price := range prices {
		if price == nil || price.Symbol != symbol {
			continue
		}

		value, err := decimal.NewFromString(price.Price)
		if err != nil {
			return decimal.Zero, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid ticker price %q for %s", price.Price, symbol)
		}

		return value, nil
	}

	return decimal.Zero, errors.Newf(errors.ErrCodeNoDataFound, "no ticker price returned for %s", symbol)
}

// Universe lists the spot USDT pairs worth scanning.
func (c *BinanceClient) Universe(ctx context.Context) ([]string, error) {
	info, err := c.apiClient.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataUnavailable, "failed to fetch exchange info from Binance", err)
	}

	if info == nil {
		return nil, errors.New(errors.ErrCodeNoDataFound, "empty exchange info from Binance")
	}

	return FilterUniverse(info.Symbols), nil
}

func klinesToBars(symbol string, klines []*binance.Kline) ([]types.Bar, error) {
	bars := make([]types.Bar, 0, len(klines))

	for _, k := range klines {
		if k == nil {
			continue
		}

		closePrice, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid close %q for %s", k.Close, symbol)
		}

		bars = append(bars, types.Bar{
			// the open time identifies the bar
			Date:  time.UnixMilli(k.OpenTime).UTC(),
			Close: closePrice,
		})
	}

	return bars, nil
}
