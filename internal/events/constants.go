package events

type EventType string

const (
	EventTypeSessionStarted EventType = "session_started"
	EventTypeQueryResolved  EventType = "query_resolved"
)
