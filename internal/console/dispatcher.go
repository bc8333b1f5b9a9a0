package console

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/database-playground/query-console/internal/events"
	"github.com/database-playground/query-console/internal/metrics"
	"github.com/database-playground/query-console/internal/result"
	"github.com/database-playground/query-console/internal/status"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
)

// ErrInFlight is returned by Submit while another query is outstanding.
var ErrInFlight = errors.New("a query is already in flight")

// Backend executes a query and returns the raw success body.
type Backend interface {
	Query(ctx context.Context, query string) ([]byte, error)
}

// Request is a submitted query waiting to be executed.
type Request struct {
	Query   string
	Started time.Time
}

// Resolution is what came back from the backend for a Request.
type Resolution struct {
	Body     []byte
	Err      error
	Finished time.Time
}

type Dispatcher struct {
	backend      Backend
	eventService *events.EventService
	now          func() time.Time
}

type Option func(*Dispatcher)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func WithEventService(eventService *events.EventService) Option {
	return func(d *Dispatcher) {
		d.eventService = eventService
	}
}

func NewDispatcher(backend Backend, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Submit starts a query. Blank input is ignored: the session comes back
// unchanged with a nil request. While a query is in flight it returns
// ErrInFlight and leaves the session alone.
//
// On success the session is InFlight with its status, error and result
// cleared, and the returned request must be passed to Execute.
func (d *Dispatcher) Submit(s Session, query string) (Session, *Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s, nil, nil
	}

	if s.InFlight() {
		metrics.RecordRejectedSubmission()
		return s, nil, ErrInFlight
	}

	req := &Request{
		Query:   query,
		Started: d.now(),
	}

	return Session{State: StateInFlight}, req, nil
}

// Execute sends the request to the backend. It is the only step that blocks.
func (d *Dispatcher) Execute(ctx context.Context, req *Request) Resolution {
	ctx, span := metrics.Tracer.Start(ctx, "Dispatcher.Execute")
	defer span.End()

	span.SetAttributes(attribute.Int("query.length", len(req.Query)))

	body, err := d.backend.Query(ctx, req.Query)
	if err != nil {
		span.SetStatus(otelcodes.Error, "query failed")
		span.RecordError(err)
	} else {
		span.SetStatus(otelcodes.Ok, "query finished")
	}

	return Resolution{
		Body:     body,
		Err:      err,
		Finished: d.now(),
	}
}

// Resolve applies a resolution to an in-flight session and returns it to
// idle. Status, result and error are replaced together. A resolution that
// arrives for a session that is not in flight, or without its request, is
// dropped.
func (d *Dispatcher) Resolve(ctx context.Context, s Session, req *Request, res Resolution) Session {
	if !s.InFlight() {
		slog.WarnContext(ctx, "dropping resolution for idle session", "state", s.State)
		return s
	}
	if req == nil {
		slog.WarnContext(ctx, "dropping resolution without a request")
		return s
	}

	if res.Err == nil {
		payload, err := result.Decode(res.Body)
		if err == nil {
			return d.succeed(ctx, req, res, payload)
		}
		res.Err = err
	}

	return d.fail(ctx, req, res)
}

func (d *Dispatcher) succeed(ctx context.Context, req *Request, res Resolution, payload result.Payload) Session {
	elapsed := payload.TimeTaken
	if !payload.HasTimeTaken {
		elapsed = clientElapsed(req, res)
	}

	r := result.Normalize(payload)

	var rowCount *int
	if tabular, ok := r.(result.Tabular); ok {
		n := tabular.RowCount()
		rowCount = &n
		metrics.RecordRows(n)
	}

	line := status.Compose(status.OutcomeSuccess, elapsed, rowCount)
	metrics.RecordQuery(metrics.StatusSuccess, elapsed)

	slog.InfoContext(ctx, "query finished", "elapsed_ms", elapsed, "tabular", rowCount != nil)

	payloadFields := map[string]any{
		"status":     metrics.StatusSuccess,
		"elapsed_ms": elapsed,
	}
	if rowCount != nil {
		payloadFields["rows"] = *rowCount
	}
	d.eventService.TriggerEvent(ctx, events.Event{
		Type:    events.EventTypeQueryResolved,
		Payload: payloadFields,
	})

	return Session{
		State:   StateIdle,
		Outcome: StateCompleted,
		Status:  &line,
		Result:  r,
	}
}

func (d *Dispatcher) fail(ctx context.Context, req *Request, res Resolution) Session {
	elapsed := clientElapsed(req, res)
	line := status.Compose(status.OutcomeFailure, elapsed, nil)
	metrics.RecordQuery(metrics.StatusFailed, elapsed)

	slog.InfoContext(ctx, "query failed", "elapsed_ms", elapsed, "error", res.Err)

	d.eventService.TriggerEvent(ctx, events.Event{
		Type: events.EventTypeQueryResolved,
		Payload: map[string]any{
			"status":     metrics.StatusFailed,
			"elapsed_ms": elapsed,
		},
	})

	return Session{
		State:   StateIdle,
		Outcome: StateFailed,
		Status:  &line,
		Err:     res.Err.Error(),
	}
}

// Run submits, executes and resolves a query in one call. Blank input
// returns the session unchanged.
func (d *Dispatcher) Run(ctx context.Context, s Session, query string) (Session, error) {
	next, req, err := d.Submit(s, query)
	if err != nil || req == nil {
		return next, err
	}

	return d.Resolve(ctx, next, req, d.Execute(ctx, req)), nil
}

// clientElapsed is the wall time between submission and resolution,
// rounded to whole milliseconds.
func clientElapsed(req *Request, res Resolution) float64 {
	return math.Round(float64(res.Finished.Sub(req.Started)) / float64(time.Millisecond))
}
