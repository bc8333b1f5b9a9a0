package queryservice

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/database-playground/query-console/internal/httputils"
	"github.com/gin-gonic/gin"
)

// maxQueryBytes caps the request body.
const maxQueryBytes = 1 << 20

// Query executes the raw request body. Failures answer 400 with the error
// text as a plain body, which the console shows verbatim.
func (s *QueryService) Query(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxQueryBytes))
	if err != nil {
		c.String(http.StatusBadRequest, "failed to read query: %s", err.Error())
		return
	}

	result, err := s.executor.Execute(ctx, string(body))
	if err != nil {
		slog.InfoContext(ctx, "query rejected",
			"machine", httputils.GetMachineName(ctx),
			"error", err,
		)

		c.String(http.StatusBadRequest, "%s", err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *QueryService) Healthz(c *gin.Context) {
	if err := s.executor.Ping(c.Request.Context()); err != nil {
		c.String(http.StatusServiceUnavailable, "%s", err.Error())
		return
	}

	c.String(http.StatusOK, "OK")
}
