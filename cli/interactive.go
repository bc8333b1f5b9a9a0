package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/database-playground/query-console/internal/events"
	"github.com/database-playground/query-console/internal/tui"
)

// Interactive runs the full-screen console until the operator quits.
func (c *Context) Interactive(ctx context.Context) error {
	c.eventService.TriggerEvent(ctx, events.Event{
		Type: events.EventTypeSessionStarted,
	})

	model := tui.New(ctx, c.dispatcher)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}

	return nil
}
