// Package httputils provides utilities for HTTP requests.
package httputils

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// httputilsContextKey is the key for the User-Agent header in the context.
type httputilsContextKey string

const (
	// contextKeyMachine is the key for the machine name in the context.
	contextKeyMachine httputilsContextKey = "httputils:machine"

	// UnknownMachine is reported for requests without a User-Agent.
	UnknownMachine = "!unknown-client!"
)

// MachineMiddleware puts the User-Agent header into the context.
func MachineMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		newCtx := context.WithValue(c.Request.Context(), contextKeyMachine, c.GetHeader("User-Agent"))
		c.Request = c.Request.WithContext(newCtx)
		c.Next()
	}
}

// GetMachineName returns the machine name from the context.
func GetMachineName(ctx context.Context) string {
	if machine, ok := ctx.Value(contextKeyMachine).(string); ok && machine != "" {
		return machine
	}

	return UnknownMachine
}

// UserAgentTransport stamps outgoing requests with a fixed User-Agent so
// the query service can tell console traffic apart.
type UserAgentTransport struct {
	UserAgent string
	Base      http.RoundTripper
}

func (t UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.UserAgent)

	return base.RoundTrip(req)
}
