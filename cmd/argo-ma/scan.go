package main

import (
	"context"
	"fmt"
	"io"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ma/internal/report"
	"github.com/rxtech-lab/argo-ma/internal/scanner"
	"github.com/rxtech-lab/argo-ma/internal/strategy"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata/provider"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Evaluate a moving average strategy across instruments and list the hits",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to a scan config YAML file"},
			&cli.StringFlag{Name: "provider", Aliases: []string{"p"}, Usage: "Market data provider: binance, polygon or parquet"},
			&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "Parquet file read by the parquet provider"},
			&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "Strategy: single_ma or bullish_stack"},
			&cli.IntFlag{Name: "period", Usage: "Single moving average period"},
			&cli.IntFlag{Name: "short", Usage: "Short period of the bullish stack"},
			&cli.IntFlag{Name: "medium", Usage: "Medium period of the bullish stack"},
			&cli.IntFlag{Name: "long", Usage: "Long period of the bullish stack"},
			&cli.StringFlag{Name: "granularity", Aliases: []string{"g"}, Usage: "Bar granularity label, e.g. 1d or 4h"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Instruments evaluated in parallel"},
			&cli.FloatFlag{Name: "rate", Usage: "Provider requests per second"},
			&cli.IntFlag{Name: "retries", Usage: "Retries of a failed provider call"},
			&cli.BoolFlag{Name: "previous-close", Usage: "Compare the previous completed daily close instead of the live price"},
			&cli.StringSliceFlag{Name: "symbols", Usage: "Instruments to scan. Defaults to the provider universe"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write a YAML report to this file"},
			&cli.StringFlag{Name: "parquet-output", Usage: "Write signals.parquet and failures.parquet into this directory"},
			&cli.BoolFlag{Name: "hits-only", Usage: "Print only hits"},
			&cli.BoolFlag{Name: "no-progress", Usage: "Hide the progress bar"},
		},
		Action: scanAction,
	}
}

// loadScanConfig reads --config when given and applies flag overrides.
func loadScanConfig(cmd *cli.Command) (scanner.Config, error) {
	config := scanner.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := scanner.LoadConfig(path)
		if err != nil {
			return scanner.Config{}, err
		}

		config = loaded
	}

	if cmd.IsSet("provider") {
		config.Provider = cmd.String("provider")
	}

	if cmd.IsSet("strategy") {
		config.Strategy = types.StrategyType(cmd.String("strategy"))
	}

	if cmd.IsSet("period") {
		config.Params.Period = cmd.Int("period")
	}

	if cmd.IsSet("short") {
		config.Params.Short = cmd.Int("short")
	}

	if cmd.IsSet("medium") {
		config.Params.Medium = cmd.Int("medium")
	}

	if cmd.IsSet("long") {
		config.Params.Long = cmd.Int("long")
	}

	if cmd.IsSet("granularity") {
		config.Granularity = cmd.String("granularity")
	}

	if cmd.IsSet("workers") {
		config.Workers = cmd.Int("workers")
	}

	if cmd.IsSet("rate") {
		config.RequestsPerSecond = cmd.Float("rate")
	}

	if cmd.IsSet("retries") {
		config.MaxRetries = cmd.Int("retries")
	}

	if cmd.IsSet("previous-close") {
		config.UsePreviousClose = cmd.Bool("previous-close")
	}

	if cmd.IsSet("symbols") {
		config.Symbols = cmd.StringSlice("symbols")
	}

	return config, config.Validate()
}

func scanAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	config, err := loadScanConfig(cmd)
	if err != nil {
		return err
	}

	strat, err := strategy.NewDefaultRegistry().Create(config.Strategy, config.Params)
	if err != nil {
		return err
	}

	marketProvider, closeProvider, err := openProvider(config.Provider, cmd.String("data"))
	if err != nil {
		return err
	}
	defer closeProvider() //nolint:errcheck

	reporters := []report.Reporter{report.NewLogReporter(log)}

	yamlReporter := report.NewYAMLReporter()
	if cmd.String("output") != "" {
		reporters = append(reporters, yamlReporter)
	}

	var parquetReporter *report.ParquetReporter

	if cmd.String("parquet-output") != "" {
		parquetReporter, err = report.NewParquetReporter(log)
		if err != nil {
			return err
		}
		defer parquetReporter.Close()

		reporters = append(reporters, parquetReporter)
	}

	scan, err := scanner.NewScanner(marketProvider, report.NewMultiReporter(reporters...), config, log)
	if err != nil {
		return err
	}

	source, _ := marketProvider.(provider.UniverseSource)

	symbols, err := scan.Symbols(ctx, source)
	if err != nil {
		return err
	}

	log.Info("Starting scan",
		zap.String("provider", config.Provider),
		zap.String("strategy", string(strat.Name())),
		zap.Int("instruments", len(symbols)),
	)

	onProgress := optional.None[scanner.OnProgress]()

	var bar *progressbar.ProgressBar
	if !cmd.Bool("no-progress") {
		bar = progressbar.Default(int64(len(symbols)), "scanning")
		onProgress = optional.Some[scanner.OnProgress](func(_ int, _ int, _ string) {
			_ = bar.Add(1)
		})
	}

	result, err := scan.Scan(ctx, strat, symbols, onProgress)
	if bar != nil {
		_ = bar.Finish()
	}

	if err != nil {
		return err
	}

	printScanResult(cmd.Root().Writer, result, cmd.Bool("hits-only"))

	if path := cmd.String("output"); path != "" {
		if err := yamlReporter.WriteFile(path); err != nil {
			return err
		}
	}

	if parquetReporter != nil {
		if err := parquetReporter.Write(cmd.String("parquet-output")); err != nil {
			return err
		}
	}

	return nil
}

func printScanResult(w io.Writer, result scanner.Result, hitsOnly bool) {
	records := result.Records
	if hitsOnly {
		records = result.Hits()
	}

	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("%d hits / %d evaluated / %d skipped",
		len(result.Hits()), len(result.Records), len(result.Failures))))

	for _, record := range records {
		fmt.Fprintln(w, FormatSignal(record))
	}

	if hitsOnly {
		return
	}

	for _, failure := range result.Failures {
		fmt.Fprintln(w, FormatFailure(failure.Symbol, failure.Err))
	}
}
