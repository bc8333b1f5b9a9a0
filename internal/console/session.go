// Package console owns the lifecycle of a single in-flight query.
package console

import (
	"github.com/database-playground/query-console/internal/result"
	"github.com/database-playground/query-console/internal/status"
)

// RequestState is the state of the console's request slot.
type RequestState int

const (
	StateIdle RequestState = iota
	StateInFlight
	StateCompleted
	StateFailed
)

func (s RequestState) String() string {
	switch s {
	case StateInFlight:
		return "in_flight"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Session is the console's view state. It is owned by one caller and
// passed through the Dispatcher by value.
//
// State is only ever StateIdle or StateInFlight. Outcome records how the
// last request ended (StateCompleted or StateFailed), or StateIdle when
// nothing has resolved yet.
type Session struct {
	State   RequestState
	Outcome RequestState

	// Status is nil until a request resolves.
	Status *status.Line

	// Result is set only by a successful request, Err only by a failed one.
	Result result.Result
	Err    string
}

// InFlight reports whether a request is outstanding.
func (s Session) InFlight() bool {
	return s.State == StateInFlight
}
