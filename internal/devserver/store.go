// Package devserver is a small SQLite-backed query service that speaks the
// console's wire contract, for local development and tests.
package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrEmptyQuery is returned for a query with no statement in it.
var ErrEmptyQuery = errors.New("query is empty")

// Rows is the success payload of a statement that returns columns.
type Rows struct {
	Headers   []string `json:"headers"`
	Rows      [][]any  `json:"rows"`
	TimeTaken float64  `json:"time_taken"`
}

// Affected is the success payload of a statement that returns no columns.
type Affected struct {
	Affected  int64   `json:"affected"`
	TimeTaken float64 `json:"time_taken"`
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the SQLite database at dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// An in-memory shared-cache database lives only as long as one
	// connection holds it.
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Execute runs one statement. Statements that produce rows return *Rows,
// everything else returns *Affected.
func (s *Store) Execute(ctx context.Context, query string) (any, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	start := s.now()

	if !returnsRows(query) {
		result, err := s.db.ExecContext(ctx, query)
		if err != nil {
			return nil, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			slog.WarnContext(ctx, "driver did not report affected rows", "error", err)
		}

		return &Affected{
			Affected:  affected,
			TimeTaken: millisSince(start, s.now()),
		}, nil
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(headers))
		pointers := make([]any, len(headers))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Rows{
		Headers:   headers,
		Rows:      out,
		TimeTaken: millisSince(start, s.now()),
	}, nil
}

var rowKeywords = []string{"SELECT", "WITH", "VALUES", "PRAGMA", "EXPLAIN"}

// returnsRows guesses from the leading keyword whether a statement
// produces a result set. Comments and opening parentheses before the
// keyword are skipped.
func returnsRows(query string) bool {
	upper := strings.ToUpper(skipPreamble(query))
	for _, keyword := range rowKeywords {
		if strings.HasPrefix(upper, keyword) {
			return true
		}
	}

	return slices.Contains(strings.Fields(upper), "RETURNING")
}

// skipPreamble drops whitespace, comments and "(" ahead of the first keyword.
func skipPreamble(query string) string {
	for {
		query = strings.TrimLeft(query, " \t\r\n(")
		switch {
		case strings.HasPrefix(query, "--"):
			end := strings.IndexByte(query, '\n')
			if end < 0 {
				return ""
			}
			query = query[end+1:]
		case strings.HasPrefix(query, "/*"):
			end := strings.Index(query[2:], "*/")
			if end < 0 {
				return ""
			}
			query = query[end+4:]
		default:
			return query
		}
	}
}

func millisSince(start, end time.Time) float64 {
	return float64(end.Sub(start).Microseconds()) / 1000
}
