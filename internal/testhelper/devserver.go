package testhelper

import (
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/database-playground/query-console/httpapi"
	queryservice "github.com/database-playground/query-console/httpapi/query"
	"github.com/database-playground/query-console/internal/config"
	"github.com/database-playground/query-console/internal/devserver"
	"github.com/database-playground/query-console/internal/queryclient"
	"github.com/gin-gonic/gin"
)

var storeSeq atomic.Int64

// NewDevServerStore creates a private in-memory SQLite store for testing.
func NewDevServerStore(t *testing.T) *devserver.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:devserver-test-%d?mode=memory&cache=shared", storeSeq.Add(1))
	store, err := devserver.Open(dsn)
	if err != nil {
		t.Fatalf("Failed to open devserver store: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("Failed to close store: %v", err)
		}
	})

	return store
}

// NewDevServer starts the development query service on a random port.
func NewDevServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewDevServerStore(t)
	engine := devserver.NewEngine(config.DevServerConfig{AllowedOrigins: []string{"*"}}, []httpapi.Service{
		queryservice.NewQueryService(store),
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return srv
}

// NewDevServerClient returns a query client wired to a fresh devserver.
func NewDevServerClient(t *testing.T) *queryclient.Client {
	t.Helper()

	srv := NewDevServer(t)

	return queryclient.NewClient(config.BackendConfig{
		URI:        srv.URL,
		QueryPath:  "/query",
		HealthPath: "/healthz",
	})
}
