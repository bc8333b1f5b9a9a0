package deps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/database-playground/query-console/internal/config"
	"github.com/database-playground/query-console/internal/deps/logger"
	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SetupOTel installs OTLP/HTTP trace and log providers and bridges slog into
// the log provider. When telemetry is disabled it installs nothing and the
// returned shutdown is a no-op.
func SetupOTel(ctx context.Context, cfg config.OTelConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	traceExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logExporter, err := otlploghttp.New(ctx)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, fmt.Errorf("create log exporter: %w", err)
	}

	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(loggerProvider)

	logger.Tee(otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(loggerProvider)))

	slog.Info("opentelemetry enabled", "service_name", cfg.ServiceName)

	return func(ctx context.Context) error {
		var result error
		if err := tracerProvider.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("shutdown tracer provider: %w", err))
		}
		if err := loggerProvider.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("shutdown logger provider: %w", err))
		}
		return result
	}, nil
}
