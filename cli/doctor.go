package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrBackendUnhealthy is returned when the query service fails its health check.
var ErrBackendUnhealthy = errors.New("backend is not healthy")

// Doctor probes the query service and reports the outcome to w.
func (c *Context) Doctor(ctx context.Context, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Checking %s…\n", c.client.HealthURL()); err != nil {
		return err
	}

	if !c.client.IsHealthy(ctx) {
		_, _ = fmt.Fprintln(w, "❌ The backend did not answer the health check.")
		return ErrBackendUnhealthy
	}

	_, err := fmt.Fprintln(w, "✅ The backend is healthy!")
	return err
}
