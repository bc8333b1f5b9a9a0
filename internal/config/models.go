package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

type Config struct {
	LogFile     string `env:"LOG_FILE"`
	MetricsPort int    `env:"METRICS_PORT"`

	Backend BackendConfig `envPrefix:"BACKEND_"`
	PostHog PostHogConfig `envPrefix:"POSTHOG_"`
	OTel    OTelConfig    `envPrefix:"OTEL_"`
}

func (c Config) Validate() error {
	var result error

	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		result = multierror.Append(result, errors.New("METRICS_PORT must be between 0 and 65535"))
	}
	if err := c.Backend.Validate(); err != nil {
		result = multierror.Append(result, err)
	}

	return result
}

// BackendConfig locates the query service.
type BackendConfig struct {
	URI            string        `env:"URI"`
	QueryPath      string        `env:"QUERY_PATH" envDefault:"/query"`
	HealthPath     string        `env:"HEALTH_PATH" envDefault:"/healthz"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

func (c BackendConfig) Validate() error {
	var result error

	if c.URI == "" {
		result = multierror.Append(result, errors.New("BACKEND_URI is required"))
	} else if u, err := url.Parse(c.URI); err != nil || u.Scheme == "" || u.Host == "" {
		result = multierror.Append(result, errors.New("BACKEND_URI must be an absolute URL"))
	}
	if !strings.HasPrefix(c.QueryPath, "/") {
		result = multierror.Append(result, errors.New("BACKEND_QUERY_PATH must start with /"))
	}
	if c.RequestTimeout < 0 {
		result = multierror.Append(result, errors.New("BACKEND_REQUEST_TIMEOUT must not be negative"))
	}

	return result
}

// QueryURL is the endpoint queries are posted to.
func (c BackendConfig) QueryURL() string {
	return strings.TrimSuffix(c.URI, "/") + c.QueryPath
}

func (c BackendConfig) HealthURL() string {
	return strings.TrimSuffix(c.URI, "/") + c.HealthPath
}

// PostHogConfig enables product analytics when APIKey is set.
type PostHogConfig struct {
	APIKey string `env:"API_KEY"`
	Host   string `env:"HOST" envDefault:"https://us.i.posthog.com"`
}

func (c PostHogConfig) Enabled() bool {
	return c.APIKey != ""
}

// OTelConfig enables trace and log export over OTLP/HTTP. The exporters read
// the standard OTEL_EXPORTER_OTLP_* variables themselves.
type OTelConfig struct {
	Enabled     bool   `env:"ENABLED"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"query-console"`
}

// DevServerConfig configures the development query service.
type DevServerConfig struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	DSN            string   `env:"DSN" envDefault:"file:devserver?mode=memory&cache=shared"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*"`
	TrustProxies   []string `env:"TRUST_PROXIES"`

	OTel OTelConfig `envPrefix:"OTEL_"`
}

func (c DevServerConfig) Validate() error {
	var result error

	if c.Port <= 0 || c.Port > 65535 {
		result = multierror.Append(result, errors.New("DEVSERVER_PORT must be between 1 and 65535"))
	}
	if c.DSN == "" {
		result = multierror.Append(result, errors.New("DEVSERVER_DSN is required"))
	}

	return result
}
