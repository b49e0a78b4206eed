package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
)

// PolygonAPIClient is the subset of the Polygon REST client used by PolygonClient.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

// PolygonAggsIterator walks aggregate results page by page.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

type realPolygonClient struct {
	client *polygon.Client
}

func (c *realPolygonClient) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return c.client.ListAggs(ctx, params, options...)
}

// PolygonClient serves US equity aggregates. Polygon has no exchange-wide
// universe, so PolygonClient is not a UniverseSource.
type PolygonClient struct {
	apiClient PolygonAPIClient
	// lookback is how far back FetchDailyBars reaches
	lookback time.Duration
	now      func() time.Time
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon apiKey is required")
	}

	return NewPolygonClientWithAPI(&realPolygonClient{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a PolygonClient over any PolygonAPIClient.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		// a year of calendar days covers about 250 trading sessions
		lookback: 365 * 24 * time.Hour,
		now:      time.Now,
	}
}

// SetLookback changes the history window of FetchDailyBars.
func (c *PolygonClient) SetLookback(lookback time.Duration) {
	if lookback > 0 {
		c.lookback = lookback
	}
}

// EnsureHistory widens the lookback so it spans bars trading sessions. About
// 250 sessions fall in 365 calendar days; a week of padding covers holidays.
func (c *PolygonClient) EnsureHistory(bars int) error {
	if bars <= 0 {
		return nil
	}

	days := (bars*365+249)/250 + 7

	if lookback := time.Duration(days) * 24 * time.Hour; lookback > c.lookback {
		c.lookback = lookback
	}

	return nil
}

func (c *PolygonClient) FetchDailyBars(ctx context.Context, symbol string, granularity string) (types.BarSeries, error) {
	end := c.now().UTC()

	return c.FetchBarsRange(ctx, symbol, granularity, end.Add(-c.lookback), end)
}

func (c *PolygonClient) FetchBarsRange(ctx context.Context, symbol string, granularity string, start time.Time, end time.Time) (types.BarSeries, error) {
	parsed, err := ParseGranularity(granularity)
	if err != nil {
		return types.BarSeries{}, err
	}

	if end.Before(start) {
		return types.BarSeries{}, errors.Newf(errors.ErrCodeInvalidDateRange, "end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: parsed.Multiplier(),
		Timespan:   parsed.Timespan(),
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithOrder(models.Asc).WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	bars := make([]types.Bar, 0)
	for iter.Next() {
		agg := iter.Item()

		bars = append(bars, types.Bar{
			Date:  time.Time(agg.Timestamp).UTC(),
			Close: decimal.NewFromFloat(agg.Close),
		})
	}

	if iter.Err() != nil {
		return types.BarSeries{}, errors.Wrapf(errors.ErrCodeDataUnavailable, iter.Err(), "failed to fetch aggregates for %s from Polygon", symbol)
	}

	return types.NewBarSeries(symbol, string(parsed), bars)
}

// CurrentPrice is the close of the most recent daily aggregate.
func (c *PolygonClient) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	end := c.now().UTC()

	series, err := c.FetchBarsRange(ctx, symbol, string(GranularityOneDay), end.AddDate(0, 0, -7), end)
	if err != nil {
		return decimal.Zero, err
	}

	latest, ok := series.Latest()
	if !ok {
		return decimal.Zero, errors.Newf(errors.ErrCodeNoDataFound, "no recent aggregates for %s", symbol)
	}

	return latest.Close, nil
}
