package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	dpcli "github.com/database-playground/query-console/cli"
	"github.com/database-playground/query-console/internal/config"
	"github.com/database-playground/query-console/internal/deps"
	"github.com/database-playground/query-console/internal/deps/logger"
	"github.com/database-playground/query-console/internal/queryclient"
	"github.com/database-playground/query-console/internal/workers"
	"github.com/posthog/posthog-go"
	"github.com/urfave/cli/v3"
)

// App holds what the root command sets up for its subcommands and tears
// down afterwards.
type App struct {
	cfg     config.Config
	cliCtx  *dpcli.Context
	closers []func(context.Context) error
}

// Setup loads the configuration, applies flag overrides and builds the
// CLI context.
func (a *App) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := deps.Config()
	if err != nil {
		return ctx, err
	}
	applyFlags(&cfg, cmd)

	if err := cfg.Validate(); err != nil {
		return ctx, fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logFile, err := logger.ToFile(cfg.LogFile)
	if err != nil {
		return ctx, err
	}
	a.onClose(func(context.Context) error { return logFile.Close() })

	shutdownOTel, err := deps.SetupOTel(ctx, cfg.OTel)
	if err != nil {
		return ctx, err
	}
	a.onClose(shutdownOTel)

	posthogClient, err := deps.PostHogClient(cfg.PostHog)
	if err != nil {
		return ctx, err
	}
	if posthogClient != nil {
		a.onClose(closePostHog(posthogClient))
	}

	if cfg.MetricsPort > 0 {
		a.onClose(ServeMetrics(cfg.MetricsPort))
	}

	a.cliCtx = dpcli.NewContext(queryclient.NewClient(cfg.Backend), deps.EventService(posthogClient))

	slog.InfoContext(ctx, "console ready", "backend", cfg.Backend.URI)

	return ctx, nil
}

// Teardown releases everything Setup acquired, newest first.
func (a *App) Teardown(ctx context.Context, _ *cli.Command) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			slog.Error("error during teardown", "error", err)
		}
	}
	a.closers = nil

	workers.Global.Wait()

	return nil
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

func closePostHog(client posthog.Client) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}

// applyFlags lets command-line flags win over the environment.
func applyFlags(cfg *config.Config, cmd *cli.Command) {
	if cmd.IsSet("backend") {
		cfg.Backend.URI = cmd.String("backend")
	}
	if cmd.IsSet("timeout") {
		cfg.Backend.RequestTimeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("metrics-port") {
		cfg.MetricsPort = cmd.Int("metrics-port")
	}
}
