package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/database-playground/query-console/internal/workers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServeMetrics exposes the default Prometheus registry on port in the
// background and returns the function that stops it.
func ServeMetrics(port int) func(context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{
			MaxRequestsInFlight: 10,
			Timeout:             10 * time.Second,
			EnableOpenMetrics:   true,
		},
	))

	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	workers.Global.Go("metrics-http", func() {
		slog.Info("prometheus http handler starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				return
			}

			slog.Error("error starting prometheus http handler", "error", err)
		}
	})

	return func(ctx context.Context) error {
		slog.Info("prometheus http handler shutting down")
		return srv.Shutdown(ctx)
	}
}
