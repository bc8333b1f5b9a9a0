package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/database-playground/query-console/httpapi"
	queryservice "github.com/database-playground/query-console/httpapi/query"
	"github.com/database-playground/query-console/internal/config"
	"github.com/database-playground/query-console/internal/devserver"
	"github.com/database-playground/query-console/internal/workers"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// Store opens the SQLite store and closes it when the app stops.
func Store(lifecycle fx.Lifecycle, cfg config.DevServerConfig) (*devserver.Store, error) {
	store, err := devserver.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}

	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

// QueryService creates the query endpoint service.
func QueryService(store *devserver.Store) httpapi.Service {
	return queryservice.NewQueryService(store)
}

// GinEngine creates a gin engine.
func GinEngine(services []httpapi.Service, cfg config.DevServerConfig) *gin.Engine {
	return devserver.NewEngine(cfg, services)
}

// GinLifecycle starts the gin engine.
func GinLifecycle(lifecycle fx.Lifecycle, engine *gin.Engine, cfg config.DevServerConfig) {
	httpCtx, cancel := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Port),
				Handler: engine,
			}

			workers.Global.Go("devserver-http", func() {
				slog.Info("gin engine starting", "address", srv.Addr)

				if err := srv.ListenAndServe(); err != nil {
					if errors.Is(err, http.ErrServerClosed) {
						return
					}

					slog.Error("error running gin engine", "error", err)
				}
			})

			workers.Global.Go("devserver-shutdown", func() {
				<-httpCtx.Done()
				if err := srv.Shutdown(context.Background()); err != nil {
					slog.Error("error shutting down gin engine", "error", err)
				}
			})

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			workers.Global.Wait()

			return nil
		},
	})
}

// AnnotateService annotates a service function to be injected into gin.
func AnnotateService(f any) any {
	return fx.Annotate(
		f,
		fx.ResultTags(`group:"services"`),
	)
}
