package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-ma/internal/backtest"
	"github.com/rxtech-lab/argo-ma/internal/scanner"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// schemaTarget is a config kind the schema command can describe.
type schemaTarget struct {
	schemaJSON func() (string, error)
	sample     func() any
}

var schemaTargets = map[string]schemaTarget{
	"backtest": {
		schemaJSON: func() (string, error) {
			config := backtest.DefaultConfig()

			return config.GenerateSchemaJSON()
		},
		sample: func() any { return backtest.DefaultConfig() },
	},
	"scan": {
		schemaJSON: func() (string, error) {
			config := scanner.DefaultConfig()

			return config.GenerateSchemaJSON()
		},
		sample: func() any { return scanner.DefaultConfig() },
	},
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:      "schema",
		Usage:     "Print the JSON schema of a config file, or write it with a sample config",
		ArgsUsage: "backtest|scan",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory to write <kind>-config.json and a sample <kind>-config.yaml into",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	kind := cmd.Args().First()

	target, ok := schemaTargets[kind]
	if !ok {
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown config kind %q, expected backtest or scan", kind)
	}

	schemaJSON, err := target.schemaJSON()
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "failed to generate schema", err)
	}

	dir := cmd.String("output")
	if dir == "" {
		_, err := fmt.Fprintln(cmd.Root().Writer, schemaJSON)

		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeUnknown, err, "failed to create directory %s", dir)
	}

	schemaName := kind + "-config.json"
	schemaPath := filepath.Join(dir, schemaName)

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeUnknown, err, "failed to write schema to %s", schemaPath)
	}

	// an existing sample may hold user edits
	samplePath := filepath.Join(dir, kind+"-config.yaml")
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(target.sample())
		if err != nil {
			return errors.Wrap(errors.ErrCodeUnknown, "failed to marshal sample config", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(samplePath, yamlBytes, 0o644); err != nil {
			return errors.Wrapf(errors.ErrCodeUnknown, err, "failed to write sample config to %s", samplePath)
		}
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "Schema written to %s\n", schemaPath)

	return err
}
