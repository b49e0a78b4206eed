package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	argoerrors "github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator   PolygonAggsIterator
	lastParams *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.lastParams = params

	return m.iterator
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++
		return true
	}

	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}

	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

func dailyAggs(start time.Time, closes ...float64) []models.Agg {
	aggs := make([]models.Agg, len(closes))
	for i, c := range closes {
		//nolint:exhaustruct // only close and timestamp matter
		aggs[i] = models.Agg{
			Close:     c,
			Timestamp: models.Millis(start.AddDate(0, 0, i)),
		}
	}

	return aggs
}

type PolygonClientTestSuite struct {
	suite.Suite
	now time.Time
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) SetupTest() {
	suite.now = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
}

func (suite *PolygonClientTestSuite) client(api PolygonAPIClient) *PolygonClient {
	client := NewPolygonClientWithAPI(api)
	client.now = func() time.Time { return suite.now }

	return client
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient() {
	_, err := NewPolygonClient("")
	suite.True(argoerrors.HasCode(err, argoerrors.ErrCodeInvalidConfiguration))

	client, err := NewPolygonClient("test-key")
	suite.NoError(err)
	suite.IsType(&PolygonClient{}, client)
}

func (suite *PolygonClientTestSuite) TestFetchBarsRange() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(start, 185.64, 184.25, 181.91)}}

	series, err := suite.client(api).FetchBarsRange(context.Background(), "AAPL", "1d", start, start.AddDate(0, 0, 2))
	suite.Require().NoError(err)

	suite.Equal("AAPL", series.Symbol())
	suite.Equal(3, series.Len())

	first, _ := series.First()
	suite.Equal(start, first.Date)
	suite.True(first.Close.Equal(decimal.NewFromFloat(185.64)))

	suite.Require().NotNil(api.lastParams)
	suite.Equal("AAPL", api.lastParams.Ticker)
	suite.Equal(1, api.lastParams.Multiplier)
	suite.Equal(models.Day, api.lastParams.Timespan)
}

func (suite *PolygonClientTestSuite) TestFetchBarsRangeIntradayMapping() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{}}

	series, err := suite.client(api).FetchBarsRange(context.Background(), "AAPL", "4h", suite.now.AddDate(0, 0, -1), suite.now)
	suite.Require().NoError(err)
	suite.Equal(0, series.Len())
	suite.Equal(4, api.lastParams.Multiplier)
	suite.Equal(models.Hour, api.lastParams.Timespan)
}

func (suite *PolygonClientTestSuite) TestFetchBarsRangeErrors() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{err: errors.New("unauthorized")}}

	_, err := suite.client(api).FetchBarsRange(context.Background(), "AAPL", "1d", suite.now.AddDate(0, 0, -5), suite.now)
	suite.True(argoerrors.HasCode(err, argoerrors.ErrCodeDataUnavailable))

	_, err = suite.client(api).FetchBarsRange(context.Background(), "AAPL", "1d", suite.now, suite.now.AddDate(0, 0, -5))
	suite.True(argoerrors.HasCode(err, argoerrors.ErrCodeInvalidDateRange))

	_, err = suite.client(api).FetchBarsRange(context.Background(), "AAPL", "5d", suite.now.AddDate(0, 0, -5), suite.now)
	suite.True(argoerrors.HasCode(err, argoerrors.ErrCodeInvalidGranularity))
}

func (suite *PolygonClientTestSuite) TestFetchDailyBarsUsesLookback() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(suite.now.AddDate(0, 0, -3), 1, 2, 3)}}
	client := suite.client(api)
	client.SetLookback(30 * 24 * time.Hour)

	series, err := client.FetchDailyBars(context.Background(), "MSFT", "1d")
	suite.Require().NoError(err)
	suite.Equal(3, series.Len())

	suite.Equal(suite.now.Add(-30*24*time.Hour), time.Time(api.lastParams.From))
	suite.Equal(suite.now, time.Time(api.lastParams.To))
}

func (suite *PolygonClientTestSuite) TestEnsureHistoryWidensLookback() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(suite.now.AddDate(0, 0, -3), 1, 2, 3)}}
	client := suite.client(api)

	// 300 sessions need 438 calendar days plus a week of holidays
	suite.NoError(client.EnsureHistory(300))

	_, err := client.FetchDailyBars(context.Background(), "MSFT", "1d")
	suite.Require().NoError(err)
	suite.Equal(suite.now.AddDate(0, 0, -445), time.Time(api.lastParams.From))

	// never narrows
	suite.NoError(client.EnsureHistory(10))
	_, err = client.FetchDailyBars(context.Background(), "MSFT", "1d")
	suite.Require().NoError(err)
	suite.Equal(suite.now.AddDate(0, 0, -445), time.Time(api.lastParams.From))
}

func (suite *PolygonClientTestSuite) TestCurrentPrice() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: dailyAggs(suite.now.AddDate(0, 0, -3), 410.1, 412.5, 415.25)}}

	price, err := suite.client(api).CurrentPrice(context.Background(), "MSFT")
	suite.Require().NoError(err)
	suite.True(price.Equal(decimal.NewFromFloat(415.25)))
}

func (suite *PolygonClientTestSuite) TestCurrentPriceNoData() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{}}

	_, err := suite.client(api).CurrentPrice(context.Background(), "MSFT")
	suite.True(argoerrors.HasCode(err, argoerrors.ErrCodeNoDataFound))
}

func (suite *PolygonClientTestSuite) TestPolygonIsNotUniverseSource() {
	var provider Provider = suite.client(&mockPolygonAPIClient{})

	_, ok := provider.(UniverseSource)
	suite.False(ok)
}
