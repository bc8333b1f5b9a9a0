// Package events forwards console usage events to PostHog.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/posthog/posthog-go"
)

// Enqueuer is the part of posthog.Client the service needs.
type Enqueuer interface {
	Enqueue(posthog.Message) error
}

// EventService is the service for triggering events.
type EventService struct {
	posthogClient Enqueuer
	distinctID    string
}

// NewEventService creates a new EventService. A nil client disables
// event delivery.
func NewEventService(posthogClient Enqueuer, distinctID string) *EventService {
	return &EventService{
		posthogClient: posthogClient,
		distinctID:    distinctID,
	}
}

// Event is the event to be triggered.
type Event struct {
	Type    EventType
	Payload map[string]any
}

// TriggerEvent queues an event for delivery. It never blocks on the network.
func (s *EventService) TriggerEvent(ctx context.Context, event Event) {
	if s == nil || s.posthogClient == nil {
		return
	}

	properties := posthog.NewProperties()
	for k, v := range event.Payload {
		properties.Set(k, v)
	}

	slog.DebugContext(ctx, "sending event to PostHog", "event_type", event.Type)

	err := s.posthogClient.Enqueue(posthog.Capture{
		DistinctId: s.distinctID,
		Event:      string(event.Type),
		Timestamp:  time.Now(),
		Properties: properties,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to enqueue event", "event_type", event.Type, "error", err)
	}
}
