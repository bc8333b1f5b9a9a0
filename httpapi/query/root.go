// queryservice serves the query endpoint the console talks to.
package queryservice

import (
	"context"

	"github.com/database-playground/query-console/httpapi"
	"github.com/gin-gonic/gin"
)

// Executor runs one query and returns the JSON-encodable success payload.
type Executor interface {
	Execute(ctx context.Context, query string) (any, error)
	Ping(ctx context.Context) error
}

type QueryService struct {
	executor Executor
}

func NewQueryService(executor Executor) *QueryService {
	return &QueryService{
		executor: executor,
	}
}

func (s *QueryService) Register(router gin.IRouter) {
	router.POST("/query", s.Query)
	router.GET("/healthz", s.Healthz)
}

var _ httpapi.Service = (*QueryService)(nil)
