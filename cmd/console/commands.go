package main

import (
	"context"
	"os"

	dpcli "github.com/database-playground/query-console/cli"
	"github.com/database-playground/query-console/internal/printer"
	"github.com/urfave/cli/v3"
)

func newExecCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:        "exec",
		Usage:       "Run one query and print the result",
		ArgsUsage:   "[QUERY...]",
		Description: "Runs the query given as arguments, or read from standard input when there are none, and exits non-zero if it fails.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format for tabular results: table, json or csv.",
				Value:   string(printer.FormatTable),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			format, err := printer.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}

			query, err := dpcli.ReadQuery(c.Args().Slice(), os.Stdin)
			if err != nil {
				return err
			}

			return app.cliCtx.Exec(ctx, query, format, os.Stdout, os.Stderr)
		},
	}
}

func newDoctorCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Check that the backend is reachable",
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.cliCtx.Doctor(ctx, os.Stdout)
		},
	}
}

func newRootCommand(app *App, subcommands ...*cli.Command) *cli.Command {
	return &cli.Command{
		Name:  "console",
		Usage: "An interactive console for the query service.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Base URI of the query service. Overrides BACKEND_URI.",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-query timeout, 0 for none. Overrides BACKEND_REQUEST_TIMEOUT.",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file. Overrides LOG_FILE.",
			},
			&cli.IntFlag{
				Name:  "metrics-port",
				Usage: "Serve Prometheus metrics on this local port. Overrides METRICS_PORT.",
			},
		},
		Before:   app.Setup,
		After:    app.Teardown,
		Commands: subcommands,
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.cliCtx.Interactive(ctx)
		},
	}
}
