package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/database-playground/query-console/internal/console"
	"github.com/database-playground/query-console/internal/printer"
)

var (
	// ErrEmptyQuery is returned when there is nothing to run.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrQueryFailed is returned after a failed query has been reported.
	ErrQueryFailed = errors.New("query failed")
)

// ReadQuery joins args into a query, or reads in when there are none.
func ReadQuery(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read query: %w", err)
	}

	return string(content), nil
}

// Exec runs one query and prints its outcome: the result to out, the status
// line and error text to diag.
func (c *Context) Exec(ctx context.Context, query string, format printer.Format, out, diag io.Writer) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}

	s, err := c.dispatcher.Run(ctx, console.Session{}, query)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	if err := printer.Session(out, diag, s, format); err != nil {
		return fmt.Errorf("print result: %w", err)
	}

	if s.Outcome == console.StateFailed {
		return ErrQueryFailed
	}

	return nil
}
