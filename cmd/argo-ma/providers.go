package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List the market data providers",
		Action: func(_ context.Context, cmd *cli.Command) error {
			providers := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("NAME", "AUTH", "UNIVERSE", "DOWNLOAD", "DESCRIPTION")

			for _, name := range marketdata.GetSupportedProviders() {
				info, err := marketdata.GetProviderInfo(name)
				if err != nil {
					return err
				}

				providers.Row(
					info.Name,
					strconv.FormatBool(info.RequiresAuth),
					strconv.FormatBool(info.HasUniverse),
					strconv.FormatBool(info.Downloadable),
					info.Description,
				)
			}

			_, err := fmt.Fprintln(cmd.Root().Writer, providers.Render())

			return err
		},
	}
}
