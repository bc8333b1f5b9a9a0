// Package deps contains the dependencies shared by the console and the devserver.
package deps

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/database-playground/query-console/internal/config"
	"github.com/database-playground/query-console/internal/events"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
	"go.uber.org/fx"
)

func loadDotEnv() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("error loading .env file", "error", err)
	}
}

// Config loads the environment variables from the .env file and returns a config.Config.
//
// It does not validate: the console applies flag overrides first.
func Config() (config.Config, error) {
	loadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("error creating config", "error", err)
		return config.Config{}, err
	}

	return cfg, nil
}

// DevServerConfig loads and validates the devserver configuration.
func DevServerConfig() (config.DevServerConfig, error) {
	loadDotEnv()

	cfg, err := config.LoadDevServerConfig()
	if err != nil {
		slog.Error("error creating config", "error", err)
		return config.DevServerConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("error validating config", "error", err)
		return config.DevServerConfig{}, err
	}

	return cfg, nil
}

// PostHogClient creates a posthog.Client. It returns nil when no API key is configured.
func PostHogClient(cfg config.PostHogConfig) (posthog.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	client, err := posthog.NewWithConfig(cfg.APIKey, posthog.Config{
		Endpoint: cfg.Host,
	})
	if err != nil {
		slog.Error("error creating posthog client", "error", err)
		return nil, fmt.Errorf("create posthog client: %w", err)
	}

	return client, nil
}

// EventService creates an events.EventService keyed by the local host name.
func EventService(client posthog.Client) *events.EventService {
	if client == nil {
		return events.NewEventService(nil, "")
	}

	distinctID, err := os.Hostname()
	if err != nil {
		distinctID = "unknown-host"
	}

	return events.NewEventService(client, distinctID)
}

// devServerOTel projects the devserver's telemetry settings for OTelSDK.
func devServerOTel(cfg config.DevServerConfig) config.OTelConfig {
	return cfg.OTel
}

// OTelSDK installs the OpenTelemetry providers for the fx app lifetime.
func OTelSDK(lifecycle fx.Lifecycle, cfg config.OTelConfig) error {
	shutdown, err := SetupOTel(context.Background(), cfg)
	if err != nil {
		return err
	}

	lifecycle.Append(fx.Hook{
		OnStop: shutdown,
	})

	return nil
}

var FxDevServerModule = fx.Module("devserver-common",
	fx.Provide(DevServerConfig),
	fx.Provide(devServerOTel),
	fx.Invoke(OTelSDK),
)
