package httputils_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/database-playground/query-console/internal/httputils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(httputils.MachineMiddleware())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, httputils.GetMachineName(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "query-console/dev")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "query-console/dev", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, httputils.UnknownMachine, rec.Body.String())
}

func TestGetMachineName_NoMiddleware(t *testing.T) {
	assert.Equal(t, httputils.UnknownMachine, httputils.GetMachineName(context.Background()))
}

func TestUserAgentTransport(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	t.Cleanup(srv.Close)

	client := &http.Client{Transport: httputils.UserAgentTransport{UserAgent: "query-console/1.2.3"}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, "query-console/1.2.3", got)
}
