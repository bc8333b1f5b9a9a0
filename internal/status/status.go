// Package status composes the status line shown after a query resolves.
package status

import (
	"fmt"
	"strconv"
)

// Severity selects the display emphasis of a status line.
type Severity int

const (
	SeverityNone Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

// Outcome is how a query resolved.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

// Line is a status message with its severity.
type Line struct {
	Message  string
	Severity Severity
}

// Compose builds the status line for a resolved query. rowCount is nil when
// the result carries no rows; it is ignored for failures.
func Compose(outcome Outcome, elapsedMs float64, rowCount *int) Line {
	elapsed := FormatMillis(elapsedMs)

	if outcome == OutcomeFailure {
		return Line{
			Message:  fmt.Sprintf("finished in %sms", elapsed),
			Severity: SeverityError,
		}
	}

	if rowCount != nil {
		return Line{
			Message:  fmt.Sprintf("finished %d rows in %sms", *rowCount, elapsed),
			Severity: SeveritySuccess,
		}
	}

	return Line{
		Message:  fmt.Sprintf("finished in %sms", elapsed),
		Severity: SeveritySuccess,
	}
}

// FormatMillis prints a millisecond count without trailing zeros, so 42
// prints as "42" and 1.5 as "1.5".
func FormatMillis(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64)
}
