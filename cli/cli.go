// Package cli provides the operations behind the console commands.
package cli

import (
	"github.com/database-playground/query-console/internal/console"
	"github.com/database-playground/query-console/internal/events"
	"github.com/database-playground/query-console/internal/queryclient"
)

// Context is the context for the CLI.
type Context struct {
	client       *queryclient.Client
	eventService *events.EventService
	dispatcher   *console.Dispatcher
}

// NewContext creates a new Context. eventService may be nil.
func NewContext(client *queryclient.Client, eventService *events.EventService) *Context {
	return &Context{
		client:       client,
		eventService: eventService,
		dispatcher:   console.NewDispatcher(client, console.WithEventService(eventService)),
	}
}
