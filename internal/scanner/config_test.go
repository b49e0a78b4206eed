package scanner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaultConfig() {
	config := DefaultConfig()

	suite.Equal("binance", config.Provider)
	suite.Equal(types.StrategyTypeSingleMA, config.Strategy)
	suite.Equal("1d", config.Granularity)
	suite.Equal(1, config.Workers)
	suite.Equal(1.0, config.RequestsPerSecond)
	suite.Equal(3, config.MaxRetries)
	suite.Equal(time.Second, config.RetryInterval)
	suite.False(config.UsePreviousClose)
	suite.Empty(config.Symbols)
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestParseConfig() {
	config, err := ParseConfig([]byte(`
strategy: bullish_stack
params:
  short: 5
  medium: 20
  long: 60
workers: 4
requests_per_second: 5
retry_interval: 250ms
symbols:
  - BTCUSDT
  - ETHUSDT
`))
	suite.Require().NoError(err)

	suite.Equal(types.StrategyTypeBullishStack, config.Strategy)
	suite.Equal(5, config.Params.Short)
	suite.Equal(60, config.Params.Long)
	suite.Equal(4, config.Workers)
	suite.Equal(5.0, config.RequestsPerSecond)
	suite.Equal(250*time.Millisecond, config.RetryInterval)
	suite.Equal([]string{"BTCUSDT", "ETHUSDT"}, config.Symbols)
	suite.Equal("binance", config.Provider)
	suite.Equal(3, config.MaxRetries)
}

func (suite *ConfigTestSuite) TestParseConfigErrors() {
	testCases := []struct {
		name string
		yaml string
		code errors.ErrorCode
	}{
		{"malformed yaml", "workers: [", errors.ErrCodeInvalidConfiguration},
		{"unknown strategy", "strategy: golden_cross", errors.ErrCodeInvalidConfiguration},
		{"unknown provider", "provider: kraken", errors.ErrCodeInvalidConfiguration},
		{"zero workers", "workers: 0", errors.ErrCodeInvalidConfiguration},
		{"zero rate", "requests_per_second: 0", errors.ErrCodeInvalidConfiguration},
		{"negative retry interval", "retry_interval: -1s", errors.ErrCodeInvalidConfiguration},
		{"empty symbol", "symbols: [\"\"]", errors.ErrCodeInvalidConfiguration},
		{"bad granularity", "granularity: 7d", errors.ErrCodeInvalidGranularity},
		{"previous close on intraday", "granularity: 4h\nuse_previous_close: true", errors.ErrCodeInvalidGranularity},
		{"incompatible version", "engine_version: v9.0.0", errors.ErrCodeVersionMismatch},
		{"period beyond binance history", "params:\n  period: 1001", errors.ErrCodeInvalidConfiguration},
		{"long stack beyond binance history", "strategy: bullish_stack\nparams:\n  long: 1500", errors.ErrCodeInvalidConfiguration},
		{"unordered stack", "strategy: bullish_stack\nparams:\n  short: 50\n  medium: 30", errors.ErrCodeInvalidPeriod},
		{"negative period", "params:\n  period: -3", errors.ErrCodeInvalidPeriod},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := ParseConfig([]byte(tc.yaml))
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
		})
	}
}

func (suite *ConfigTestSuite) TestParseConfigHistoryLimit() {
	config, err := ParseConfig([]byte("params:\n  period: 1000"))
	suite.Require().NoError(err)
	suite.Equal(1000, config.Params.Period)

	// polygon pages through aggregates and has no fixed cap
	config, err = ParseConfig([]byte("provider: polygon\nparams:\n  period: 1500"))
	suite.Require().NoError(err)
	suite.Equal(1500, config.Params.Period)
}

func (suite *ConfigTestSuite) TestLoadConfig() {
	path := filepath.Join(suite.T().TempDir(), "scan.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("use_previous_close: true\n"), 0o600))

	config, err := LoadConfig(path)
	suite.Require().NoError(err)
	suite.True(config.UsePreviousClose)

	_, err = LoadConfig(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := DefaultConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)

	var schema map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schemaJSON), &schema))
	suite.Equal("argo-ma-scan-config", schema["title"])

	properties, ok := schema["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "workers")
	suite.Contains(properties, "use_previous_close")

	retryInterval, ok := properties["retry_interval"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("string", retryInterval["type"])
}
