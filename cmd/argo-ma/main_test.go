package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-ma/internal/report"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/internal/version"
	"github.com/rxtech-lab/argo-ma/mocks"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type MainTestSuite struct {
	suite.Suite
	tempDir string
	out     *bytes.Buffer
}

func TestMainSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

func (suite *MainTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.out = &bytes.Buffer{}
}

func (suite *MainTestSuite) run(args ...string) error {
	app := newApp()
	app.Writer = suite.out

	return app.Run(context.Background(), append([]string{"argo-ma", "--log-level", "error"}, args...))
}

// writeParquet stores a year of synthetic daily bars per symbol.
func (suite *MainTestSuite) writeParquet(symbols ...string) string {
	path := filepath.Join(suite.tempDir, "bars.parquet")

	parquetWriter := writer.NewDuckDBWriter(path, types.GranularityDaily)
	suite.Require().NoError(parquetWriter.Initialize())

	defer parquetWriter.Close()

	for _, symbol := range symbols {
		for _, bar := range mocks.GenerateYear(symbol) {
			suite.Require().NoError(parquetWriter.Write(symbol, bar))
		}
	}

	_, err := parquetWriter.Finalize()
	suite.Require().NoError(err)

	return path
}

func (suite *MainTestSuite) TestVersion() {
	suite.Require().NoError(suite.run("version"))
	suite.Equal(version.GetVersion()+"\n", suite.out.String())
}

func (suite *MainTestSuite) TestProviders() {
	suite.Require().NoError(suite.run("providers"))

	output := suite.out.String()
	suite.Contains(output, "binance")
	suite.Contains(output, "parquet")
	suite.Contains(output, "polygon")
}

func (suite *MainTestSuite) TestSchemaToStdout() {
	suite.Require().NoError(suite.run("schema", "backtest"))

	var schema map[string]any
	suite.Require().NoError(json.Unmarshal(suite.out.Bytes(), &schema))
	suite.Equal("argo-ma-backtest-config", schema["title"])
}

func (suite *MainTestSuite) TestSchemaToDirectory() {
	dir := filepath.Join(suite.tempDir, "config")

	suite.Require().NoError(suite.run("schema", "--output", dir, "scan"))

	suite.FileExists(filepath.Join(dir, "scan-config.json"))

	sample, err := os.ReadFile(filepath.Join(dir, "scan-config.yaml"))
	suite.Require().NoError(err)
	suite.Contains(string(sample), "# yaml-language-server: $schema=scan-config.json")
	suite.Contains(string(sample), "retry_interval: 1s")

	// existing samples are left alone
	suite.Require().NoError(os.WriteFile(filepath.Join(dir, "scan-config.yaml"), []byte("workers: 2\n"), 0o644))
	suite.Require().NoError(suite.run("schema", "--output", dir, "scan"))

	sample, err = os.ReadFile(filepath.Join(dir, "scan-config.yaml"))
	suite.Require().NoError(err)
	suite.Equal("workers: 2\n", string(sample))
}

func (suite *MainTestSuite) TestSchemaUnknownKind() {
	err := suite.run("schema", "trading")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *MainTestSuite) TestBacktestFromParquet() {
	dataPath := suite.writeParquet("COMPUSDT")
	reportPath := filepath.Join(suite.tempDir, "backtest.yaml")

	suite.Require().NoError(suite.run("backtest", "--data", dataPath, "--no-progress", "--output", reportPath))
	suite.Contains(suite.out.String(), "Backtest COMPUSDT MA30")
	suite.Contains(suite.out.String(), "2023-01-01 .. 2023-08-01")

	data, err := os.ReadFile(reportPath)
	suite.Require().NoError(err)

	var doc report.Document
	suite.Require().NoError(yaml.Unmarshal(data, &doc))
	suite.Require().Len(doc.Backtests, 1)
	suite.Equal("COMPUSDT", doc.Backtests[0].Symbol)
	suite.Equal(30, doc.Backtests[0].Period)
	suite.Equal(doc.Backtests[0].TradeCount, len(doc.Backtests[0].Trades))
}

func (suite *MainTestSuite) TestBacktestMissingHistory() {
	dataPath := suite.writeParquet("COMPUSDT")

	// the synthetic year starts 2022-12-02, too late for a 60 day average on 2023-01-01
	err := suite.run("backtest", "--data", dataPath, "--no-progress", "--period", "60")
	suite.Require().Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *MainTestSuite) TestBacktestInvalidFlags() {
	err := suite.run("backtest", "--start", "20230801", "--end", "20230101", "--no-progress")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange))
}

func (suite *MainTestSuite) TestScanFromParquet() {
	dataPath := suite.writeParquet("COMPUSDT", "ETHUSDT")
	reportPath := filepath.Join(suite.tempDir, "scan.yaml")
	parquetDir := filepath.Join(suite.tempDir, "scan")

	suite.Require().NoError(suite.run("scan",
		"--provider", "parquet",
		"--data", dataPath,
		"--rate", "1000",
		"--no-progress",
		"--output", reportPath,
		"--parquet-output", parquetDir,
	))
	suite.Contains(suite.out.String(), "2 evaluated / 0 skipped")
	suite.Contains(suite.out.String(), "COMPUSDT")
	suite.Contains(suite.out.String(), "ETHUSDT")

	data, err := os.ReadFile(reportPath)
	suite.Require().NoError(err)

	var doc report.Document
	suite.Require().NoError(yaml.Unmarshal(data, &doc))
	suite.Require().Len(doc.Signals, 2)
	suite.Equal("COMPUSDT", doc.Signals[0].Symbol)
	suite.Contains(doc.Signals[0].Averages, "MA30")

	suite.FileExists(filepath.Join(parquetDir, "signals.parquet"))
}

func (suite *MainTestSuite) TestScanBullishStackSymbols() {
	dataPath := suite.writeParquet("COMPUSDT")

	suite.Require().NoError(suite.run("scan",
		"--provider", "parquet",
		"--data", dataPath,
		"--strategy", "bullish_stack",
		"--symbols", "COMPUSDT",
		"--symbols", "MISSINGUSDT",
		"--rate", "1000",
		"--no-progress",
	))
	suite.Contains(suite.out.String(), "1 evaluated / 1 skipped")
	suite.Contains(suite.out.String(), "MISSINGUSDT")
}

func (suite *MainTestSuite) TestScanInvalidStrategy() {
	err := suite.run("scan", "--strategy", "golden_cross", "--no-progress")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
