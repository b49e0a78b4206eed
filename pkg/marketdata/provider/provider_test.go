package provider

import (
	"testing"

	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ProviderTestSuite struct {
	suite.Suite
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func (suite *ProviderTestSuite) TestNewMarketDataProvider() {
	binanceProvider, err := NewMarketDataProvider(ProviderBinance, Config{})
	suite.NoError(err)
	suite.IsType(&BinanceClient{}, binanceProvider)

	_, ok := binanceProvider.(UniverseSource)
	suite.True(ok)

	polygonProvider, err := NewMarketDataProvider(ProviderPolygon, Config{PolygonApiKey: "key"})
	suite.NoError(err)
	suite.IsType(&PolygonClient{}, polygonProvider)
}

func (suite *ProviderTestSuite) TestNewMarketDataProviderErrors() {
	_, err := NewMarketDataProvider(ProviderPolygon, Config{})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewMarketDataProvider(ProviderParquet, Config{})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewMarketDataProvider("kraken", Config{})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}
