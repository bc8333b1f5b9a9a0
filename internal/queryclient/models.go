package queryclient

import (
	"fmt"
	"net/http"
)

// BackendError is a non-success response from the query service. The body
// is the service's own error text.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e BackendError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return e.Body
}
