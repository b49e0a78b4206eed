package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/shopspring/decimal"
)

// DataGenerator generates synthetic close series for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the instrument symbol (e.g. "BTCUSDT")
	Symbol string
	// StartDate is the date of the first bar
	StartDate time.Time
	// Granularity is the series label; "1d" steps one calendar day per bar
	Granularity string
	// Interval is the step between bars when Granularity is not "1d"
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the first close
	InitialPrice float64
	// Volatility controls close-to-close movement (0.02 = 2% typical daily move)
	Volatility float64
	// Trend is the total drift spread across the series (-0.5 to 0.5)
	Trend float64
}

// DefaultConfig returns one year of daily bars starting 2022-12-02, enough
// history for a 30 day average over the 20230101 to 20230801 backtest window.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "TEST",
		StartDate:    time.Date(2022, 12, 2, 0, 0, 0, 0, time.UTC),
		Granularity:  types.GranularityDaily,
		Interval:     24 * time.Hour,
		Count:        365,
		InitialPrice: 100.0,
		Volatility:   0.02,
		Trend:        0.0,
	}
}

// Generate creates gap-free bars following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartDate

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a standard normal sample
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		next := currentPrice * (1 + config.Volatility*z + drift)
		if next <= 0 {
			next = currentPrice * 0.99
		}

		bars[i] = types.Bar{
			Date:  currentTime,
			Close: decimal.NewFromFloat(roundToDecimals(next, 4)),
		}

		currentPrice = next
		currentTime = g.step(config, currentTime)
	}

	return bars
}

// GenerateSeries wraps Generate into a validated BarSeries.
func (g *DataGenerator) GenerateSeries(config GeneratorConfig) (types.BarSeries, error) {
	return types.NewBarSeries(config.Symbol, config.Granularity, g.Generate(config))
}

// GenerateMultiSymbol generates one series per symbol with slightly varied
// starting prices and volatility.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string][]types.Bar {
	all := make(map[string][]types.Bar, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		all[symbol] = g.Generate(config)
	}

	return all
}

// GenerateYear returns DefaultConfig bars for symbol with a fixed seed.
func GenerateYear(symbol string) []types.Bar {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol

	return gen.Generate(config)
}

// ConstantBars returns count daily bars starting at start, all closing at price.
func ConstantBars(start time.Time, count int, price decimal.Decimal) []types.Bar {
	bars := make([]types.Bar, count)
	for i := range bars {
		bars[i] = types.Bar{Date: start.AddDate(0, 0, i), Close: price}
	}

	return bars
}

func (g *DataGenerator) step(config GeneratorConfig, t time.Time) time.Time {
	if config.Granularity == "" || config.Granularity == types.GranularityDaily {
		return t.AddDate(0, 0, 1)
	}

	return t.Add(config.Interval)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
