package marketdata

import (
	"sort"

	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata/provider"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name" yaml:"name"`
	DisplayName  string `json:"displayName" yaml:"display_name"`
	Description  string `json:"description" yaml:"description"`
	RequiresAuth bool   `json:"requiresAuth" yaml:"requires_auth"`
	// HasUniverse is true when the provider can list instruments for a batch scan
	HasUniverse bool `json:"hasUniverse" yaml:"has_universe"`
	// Downloadable is true when the download command can fetch from it
	Downloadable bool `json:"downloadable" yaml:"downloadable"`
}

var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderPolygon: {
		Name:         string(provider.ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market daily and intraday aggregates",
		RequiresAuth: true,
		HasUniverse:  false,
		Downloadable: true,
	},
	provider.ProviderBinance: {
		Name:         string(provider.ProviderBinance),
		DisplayName:  "Binance",
		Description:  "Spot klines, ticker prices and the USDT pair universe",
		RequiresAuth: false,
		HasUniverse:  true,
		Downloadable: true,
	},
	provider.ProviderParquet: {
		Name:         string(provider.ProviderParquet),
		DisplayName:  "Parquet file",
		Description:  "Bars previously saved by the download command",
		RequiresAuth: false,
		HasUniverse:  true,
		Downloadable: false,
	},
}

// GetSupportedProviders returns every provider name in sorted order.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}
