package console_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/database-playground/query-console/internal/console"
	"github.com/database-playground/query-console/internal/queryclient"
	"github.com/database-playground/query-console/internal/result"
	"github.com/database-playground/query-console/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	calls   atomic.Int32
	queries []string
	respond func(query string) ([]byte, error)
}

func (b *fakeBackend) Query(_ context.Context, query string) ([]byte, error) {
	b.calls.Add(1)
	b.queries = append(b.queries, query)
	return b.respond(query)
}

func respondWith(body string, err error) *fakeBackend {
	return &fakeBackend{respond: func(string) ([]byte, error) {
		return []byte(body), err
	}}
}

// steppingClock advances by step on every reading.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestSubmit_BlankIsNoop(t *testing.T) {
	backend := respondWith(`{"time_taken":1}`, nil)
	d := console.NewDispatcher(backend)

	line := status.Line{Message: "finished in 3ms", Severity: status.SeveritySuccess}
	before := console.Session{Outcome: console.StateCompleted, Status: &line}

	for _, query := range []string{"", "   ", "\n\t  \n"} {
		after, req, err := d.Submit(before, query)
		require.NoError(t, err)
		assert.Nil(t, req)
		assert.Equal(t, before, after)
	}

	after, err := d.Run(context.Background(), before, "  ")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Zero(t, backend.calls.Load())
}

func TestSubmit_ClearsPreviousOutcome(t *testing.T) {
	d := console.NewDispatcher(respondWith(`{}`, nil))

	line := status.Line{Message: "finished in 3ms", Severity: status.SeverityError}
	s, req, err := d.Submit(console.Session{
		Outcome: console.StateFailed,
		Status:  &line,
		Err:     "boom",
		Result:  result.Opaque{},
	}, "  select 1  ")
	require.NoError(t, err)
	require.NotNil(t, req)

	assert.Equal(t, "select 1", req.Query)
	assert.Equal(t, console.StateInFlight, s.State)
	assert.True(t, s.InFlight())
	assert.Nil(t, s.Status)
	assert.Nil(t, s.Result)
	assert.Empty(t, s.Err)
}

func TestSubmit_SingleFlight(t *testing.T) {
	backend := respondWith(`{"time_taken":1}`, nil)
	d := console.NewDispatcher(backend)

	inFlight, req, err := d.Submit(console.Session{}, "first")
	require.NoError(t, err)
	require.NotNil(t, req)

	again, second, err := d.Submit(inFlight, "second")
	require.ErrorIs(t, err, console.ErrInFlight)
	assert.Nil(t, second)
	assert.Equal(t, inFlight, again)

	_, err = d.Run(context.Background(), inFlight, "third")
	require.ErrorIs(t, err, console.ErrInFlight)
	assert.Zero(t, backend.calls.Load())

	idle := d.Resolve(context.Background(), inFlight, req, d.Execute(context.Background(), req))
	assert.False(t, idle.InFlight())
	assert.Equal(t, int32(1), backend.calls.Load())

	_, next, err := d.Submit(idle, "fourth")
	require.NoError(t, err)
	assert.NotNil(t, next)
}

func TestRun_SuccessWithRows(t *testing.T) {
	backend := respondWith(`{"rows":[[1],[2],[3],[4],[5]],"headers":["n"],"time_taken":42}`, nil)
	d := console.NewDispatcher(backend, console.WithClock(steppingClock(time.Second)))

	s, err := d.Run(context.Background(), console.Session{}, "  ?[n] <- [[1]]  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"?[n] <- [[1]]"}, backend.queries)
	assert.Equal(t, console.StateIdle, s.State)
	assert.Equal(t, console.StateCompleted, s.Outcome)
	require.NotNil(t, s.Status)
	// server time wins over the one-second client clock
	assert.Equal(t, "finished 5 rows in 42ms", s.Status.Message)
	assert.Equal(t, status.SeveritySuccess, s.Status.Severity)
	assert.Empty(t, s.Err)

	tabular, ok := s.Result.(result.Tabular)
	require.True(t, ok)
	assert.Equal(t, []string{"n"}, tabular.Headers)
}

func TestRun_SuccessWithoutRows(t *testing.T) {
	d := console.NewDispatcher(respondWith(`{"affected":3,"time_taken":7}`, nil))

	s, err := d.Run(context.Background(), console.Session{}, "put")
	require.NoError(t, err)

	require.NotNil(t, s.Status)
	assert.Equal(t, "finished in 7ms", s.Status.Message)
	assert.Equal(t, status.SeveritySuccess, s.Status.Severity)

	plan := result.Render(s.Result)
	assert.Equal(t, result.KindRaw, plan.Kind)
	assert.Contains(t, plan.Dump, `"affected": 3`)
}

func TestRun_SuccessWithoutTimeTakenUsesClientTime(t *testing.T) {
	d := console.NewDispatcher(respondWith(`{"ok":true}`, nil), console.WithClock(steppingClock(12*time.Millisecond)))

	s, err := d.Run(context.Background(), console.Session{}, "ping")
	require.NoError(t, err)

	require.NotNil(t, s.Status)
	assert.Equal(t, "finished in 12ms", s.Status.Message)
	assert.Equal(t, status.SeveritySuccess, s.Status.Severity)
}

func TestRun_BackendFailure(t *testing.T) {
	backendErr := &queryclient.BackendError{StatusCode: 400, Body: "Table not found people"}
	d := console.NewDispatcher(respondWith("", backendErr), console.WithClock(steppingClock(30*time.Millisecond)))

	s, err := d.Run(context.Background(), console.Session{}, "?[a] := *people[a]")
	require.NoError(t, err)

	assert.Equal(t, console.StateIdle, s.State)
	assert.Equal(t, console.StateFailed, s.Outcome)
	assert.Equal(t, "Table not found people", s.Err)
	assert.Nil(t, s.Result)
	require.NotNil(t, s.Status)
	assert.Equal(t, "finished in 30ms", s.Status.Message)
	assert.Equal(t, status.SeverityError, s.Status.Severity)
}

func TestRun_TransportFailure(t *testing.T) {
	d := console.NewDispatcher(respondWith("", errors.New("send request: connection refused")))

	s, err := d.Run(context.Background(), console.Session{}, "select")
	require.NoError(t, err)

	assert.Equal(t, "send request: connection refused", s.Err)
	assert.Equal(t, console.StateFailed, s.Outcome)
	assert.Nil(t, s.Result)
}

func TestRun_MalformedPayload(t *testing.T) {
	bodies := map[string]string{
		"truncated":     `{"rows":`,
		"trailing text": `{"rows":[[1]],"time_taken":3} <html>oops`,
		"two objects":   `{"time_taken":1}{"time_taken":2}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			d := console.NewDispatcher(respondWith(body, nil), console.WithClock(steppingClock(4*time.Millisecond)))

			s, err := d.Run(context.Background(), console.Session{}, "select")
			require.NoError(t, err)

			assert.Equal(t, console.StateFailed, s.Outcome)
			assert.Contains(t, s.Err, "decode payload")
			assert.Nil(t, s.Result)
			require.NotNil(t, s.Status)
			assert.Equal(t, "finished in 4ms", s.Status.Message)
			assert.Equal(t, status.SeverityError, s.Status.Severity)
		})
	}
}

func TestRun_FailureUsesClientMeasuredTime(t *testing.T) {
	backend := &fakeBackend{respond: func(string) ([]byte, error) {
		time.Sleep(30 * time.Millisecond)
		return []byte(`{"time_taken":99999}`), &queryclient.BackendError{StatusCode: 500, Body: "exploded"}
	}}
	d := console.NewDispatcher(backend)

	s, err := d.Run(context.Background(), console.Session{}, "select")
	require.NoError(t, err)
	require.NotNil(t, s.Status)

	var n int
	_, scanErr := fmt.Sscanf(s.Status.Message, "finished in %dms", &n)
	require.NoError(t, scanErr)
	assert.GreaterOrEqual(t, n, 30)
	assert.Less(t, n, 1000)
}

func TestResolve_DropsStaleResolution(t *testing.T) {
	d := console.NewDispatcher(respondWith(`{}`, nil))

	line := status.Line{Message: "finished in 1ms", Severity: status.SeveritySuccess}
	idle := console.Session{Outcome: console.StateCompleted, Status: &line}

	after := d.Resolve(context.Background(), idle, &console.Request{Query: "x"}, console.Resolution{Body: []byte(`{"time_taken":2}`)})
	assert.Equal(t, idle, after)
}

func TestResolve_NilRequest(t *testing.T) {
	d := console.NewDispatcher(respondWith(`{}`, nil))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		idle := d.Resolve(ctx, console.Session{}, nil, console.Resolution{})
		assert.Equal(t, console.Session{}, idle)
	})

	inFlight := console.Session{State: console.StateInFlight}
	assert.NotPanics(t, func() {
		after := d.Resolve(ctx, inFlight, nil, console.Resolution{Body: []byte(`{"time_taken":1}`)})
		assert.Equal(t, inFlight, after)
	})
}

func TestRequestStateString(t *testing.T) {
	assert.Equal(t, "idle", console.StateIdle.String())
	assert.Equal(t, "in_flight", console.StateInFlight.String())
	assert.Equal(t, "completed", console.StateCompleted.String())
	assert.Equal(t, "failed", console.StateFailed.String())
}
