package main

import (
	"context"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ma/internal/backtest"
	"github.com/rxtech-lab/argo-ma/internal/report"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata/provider"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func backtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Replay the single moving average long/flat rule over a date range",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to a backtest config YAML file"},
			&cli.StringFlag{Name: "symbol", Usage: "Instrument to backtest"},
			&cli.IntFlag{Name: "period", Usage: "Moving average period in days"},
			&cli.StringFlag{Name: "start", Usage: "First replayed day in `YYYYMMDD` format"},
			&cli.StringFlag{Name: "end", Usage: "Last replayed day in `YYYYMMDD` format"},
			&cli.FloatFlag{Name: "cash", Usage: "Initial cash"},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Market data provider used when no --data file is given",
				Value:   string(provider.ProviderBinance),
			},
			&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "Parquet file to read bars from instead of the provider"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write a YAML report to this file"},
			&cli.BoolFlag{Name: "no-progress", Usage: "Hide the progress bar"},
		},
		Action: backtestAction,
	}
}

// loadBacktestConfig reads --config when given and applies flag overrides.
func loadBacktestConfig(cmd *cli.Command) (backtest.Config, error) {
	config := backtest.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := backtest.LoadConfig(path)
		if err != nil {
			return backtest.Config{}, err
		}

		config = loaded
	}

	if cmd.IsSet("symbol") {
		config.Symbol = cmd.String("symbol")
	}

	if cmd.IsSet("period") {
		config.Period = cmd.Int("period")
	}

	if cmd.IsSet("start") {
		config.StartDate = cmd.String("start")
	}

	if cmd.IsSet("end") {
		config.EndDate = cmd.String("end")
	}

	if cmd.IsSet("cash") {
		config.InitialCash = cmd.Float("cash")
	}

	if cmd.IsSet("data") {
		config.DataPath = optional.Some(cmd.String("data"))
	}

	return config, config.Validate()
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	config, err := loadBacktestConfig(cmd)
	if err != nil {
		return err
	}

	params, err := config.Params()
	if err != nil {
		return err
	}

	providerName := cmd.String("provider")
	if config.DataPath.IsSome() {
		providerName = string(provider.ProviderParquet)
	}

	marketProvider, closeProvider, err := openProvider(providerName, config.DataPath.TakeOr(""))
	if err != nil {
		return err
	}
	defer closeProvider() //nolint:errcheck

	// the first replayed day needs Period days of history before it
	fetchStart := params.StartDate.AddDate(0, 0, -params.Period)

	series, err := marketProvider.FetchBarsRange(ctx, config.Symbol, config.Granularity, fetchStart, params.EndDate)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestFailed, err, "failed to load bars for %s", config.Symbol)
	}

	log.Info("Loaded bars",
		zap.String("symbol", config.Symbol),
		zap.String("provider", providerName),
		zap.Int("bars", series.Len()),
	)

	onProcessDate := optional.None[backtest.OnProcessDateCallback]()

	var bar *progressbar.ProgressBar
	if !cmd.Bool("no-progress") {
		onProcessDate = optional.Some[backtest.OnProcessDateCallback](func(current int, total int) error {
			if bar == nil {
				bar = progressbar.Default(int64(total), "backtesting")
			}

			return bar.Set(current)
		})
	}

	result, err := backtest.NewEngine(log).Run(series, params, onProcessDate)
	if bar != nil {
		_ = bar.Finish()
	}

	if err != nil {
		return err
	}

	summary := backtest.Summarize(config.Symbol, params, result, time.Now().UTC())

	yamlReporter := report.NewYAMLReporter()
	reporters := report.NewMultiReporter(report.NewLogReporter(log), yamlReporter)

	if err := reporters.ReportBacktest(summary); err != nil {
		return err
	}

	fmt.Fprint(cmd.Root().Writer, FormatSummary(summary))

	if path := cmd.String("output"); path != "" {
		if err := yamlReporter.WriteFile(path); err != nil {
			return err
		}
	}

	return nil
}
