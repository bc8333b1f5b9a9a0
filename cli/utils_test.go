package cli_test

import (
	"testing"

	"github.com/database-playground/query-console/cli"
	"github.com/database-playground/query-console/internal/events"
	"github.com/database-playground/query-console/internal/queryclient"
	"github.com/database-playground/query-console/internal/testhelper"
	"github.com/posthog/posthog-go"
)

// recordingClient captures enqueued PostHog messages.
type recordingClient struct {
	messages []posthog.Message
}

func (c *recordingClient) Enqueue(msg posthog.Message) error {
	c.messages = append(c.messages, msg)
	return nil
}

func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	posthogClient := &recordingClient{}
	eventService := events.NewEventService(posthogClient, "test-machine")
	client := testhelper.NewDevServerClient(t)

	return &TestContext{
		client:        client,
		eventService:  eventService,
		posthogClient: posthogClient,
	}
}

type TestContext struct {
	client        *queryclient.Client
	eventService  *events.EventService
	posthogClient *recordingClient
}

func (tc *TestContext) GetContext(t *testing.T) *cli.Context {
	t.Helper()

	return cli.NewContext(tc.client, tc.eventService)
}

func (tc *TestContext) GetEvents(t *testing.T) []posthog.Message {
	t.Helper()

	return tc.posthogClient.messages
}
