package devserver

import (
	"log/slog"

	"github.com/Depado/ginprom"
	"github.com/database-playground/query-console/httpapi"
	"github.com/database-playground/query-console/internal/config"
	"github.com/database-playground/query-console/internal/httputils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/lo"
	sloggin "github.com/samber/slog-gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const defaultServiceName = "query-console-devserver"

// CorsMiddleware allows browser consoles from the configured origins.
func CorsMiddleware(cfg config.DevServerConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "User-Agent", "Referer"},
	}

	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}

	return cors.New(corsConfig)
}

// LoggerMiddleware writes one access log line per request.
func LoggerMiddleware() gin.HandlerFunc {
	return sloggin.New(slog.Default().With("component", "devserver"))
}

// TracingMiddleware opens a server span per request, continuing the trace
// context the console sends. It uses the global tracer provider.
func TracingMiddleware(cfg config.DevServerConfig) gin.HandlerFunc {
	return otelgin.Middleware(lo.CoalesceOrEmpty(cfg.OTel.ServiceName, defaultServiceName))
}

// NewEngine builds the gin engine with the default middleware chain
// followed by extra, and serves the request metrics on /metrics.
func NewEngine(cfg config.DevServerConfig, services []httpapi.Service, extra ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()

	if err := engine.SetTrustedProxies(cfg.TrustProxies); err != nil {
		slog.Error("error setting trusted proxies", "error", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prom := ginprom.New(
		ginprom.Engine(engine),
		ginprom.Registry(registry),
		ginprom.Namespace("devserver"),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/metrics", "/healthz"),
	)

	engine.Use(
		TracingMiddleware(cfg),
		httputils.MachineMiddleware(),
		LoggerMiddleware(),
		CorsMiddleware(cfg),
		prom.Instrument(),
	)
	for _, middleware := range extra {
		engine.Use(middleware)
	}

	engine.Use(gin.Recovery())

	httpapi.Register(engine, services...)

	return engine
}
