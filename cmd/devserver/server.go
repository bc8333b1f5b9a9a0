// Command devserver runs a SQLite-backed query service for the console.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/database-playground/query-console/internal/deps"
	"go.uber.org/fx"

	_ "github.com/database-playground/query-console/internal/deps/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	app := fx.New(
		deps.FxDevServerModule,
		fx.Provide(
			Store,
			AnnotateService(QueryService),
			fx.Annotate(
				GinEngine,
				fx.ParamTags(`group:"services"`),
			),
		),
		fx.Invoke(GinLifecycle),
	)

	if err := app.Start(ctx); err != nil {
		slog.Error("error starting devserver", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Gracefully shutting down server (Ctrl+C again to force stop)...")
	cancel()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("error stopping devserver", "error", err)
	}

	slog.Info("Server stopped")
}
