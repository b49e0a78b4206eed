package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-ma/internal/logger"
	"github.com/rxtech-lab/argo-ma/internal/version"
	"github.com/urfave/cli/v3"
)

// newApp builds the argo-ma command tree.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "argo-ma",
		Usage:   "Moving average signal scanner and single-asset backtester",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
				Value: "info",
			},
		},
		Commands: []*cli.Command{
			scanCommand(),
			backtestCommand(),
			downloadCommand(),
			schemaCommand(),
			providersCommand(),
			versionCommand(),
		},
	}
}

// newLogger builds the logger selected by --log-level.
func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	return logger.NewLoggerWithLevel(cmd.String("log-level"))
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the argo-ma version",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := cmd.Root().Writer.Write([]byte(version.GetVersion() + "\n"))

			return err
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
