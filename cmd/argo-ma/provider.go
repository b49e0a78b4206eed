package main

import (
	"io"
	"os"

	"github.com/rxtech-lab/argo-ma/pkg/marketdata/provider"
)

// openProvider builds the named provider. The returned close function
// releases the parquet provider's database and is a no-op otherwise.
func openProvider(name string, dataPath string) (provider.Provider, func() error, error) {
	marketProvider, err := provider.NewMarketDataProvider(provider.ProviderType(name), provider.Config{
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
		ParquetPath:   dataPath,
	})
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() error { return nil }
	if closer, ok := marketProvider.(io.Closer); ok {
		closeFn = closer.Close
	}

	return marketProvider, closeFn, nil
}
