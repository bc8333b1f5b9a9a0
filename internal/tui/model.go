// Package tui is the interactive query console.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/database-playground/query-console/internal/console"
	"github.com/database-playground/query-console/internal/printer"
	"github.com/database-playground/query-console/internal/result"
	"github.com/database-playground/query-console/internal/status"
)

const (
	inputHeight   = 6
	chromeHeight  = 7 // title, blank, controls, status, blank lines
	minGridHeight = 3
)

type focusArea int

const (
	focusInput focusArea = iota
	focusResult
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	runStyle      = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2"))
	runOffStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8")).Background(lipgloss.Color("236"))
	tagBaseStyle  = lipgloss.NewStyle().Padding(0, 1)
	successTag    = tagBaseStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2"))
	errorTag      = tagBaseStyle.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
	neutralTag    = tagBaseStyle.Foreground(lipgloss.Color("7"))
	errorBlock    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("1")).Padding(0, 1)
	focusedBorder = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("205"))
	blurredBorder = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240"))
)

// Model is the bubbletea model of the console.
type Model struct {
	ctx        context.Context
	dispatcher *console.Dispatcher
	session    console.Session

	input    textarea.Model
	dump     viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	focus    focusArea
	plan     result.Plan
	hasPlan  bool
	offset   int
	width    int
	gridRows int
}

// New creates the console model. ctx bounds every backend call made from it.
func New(ctx context.Context, dispatcher *console.Dispatcher) *Model {
	input := textarea.New()
	input.Placeholder = "Type a query, then press alt+enter"
	input.ShowLineNumbers = true
	input.CharLimit = 0
	input.SetHeight(inputHeight)
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &Model{
		ctx:        ctx,
		dispatcher: dispatcher,
		input:      input,
		dump:       viewport.New(80, minGridHeight),
		spinner:    s,
		help:       help.New(),
		keys:       newKeyMap(),
		gridRows:   minGridHeight,
		width:      80,
	}
}

// Session returns the current view state.
func (m *Model) Session() console.Session {
	return m.session
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.session.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resolvedMsg:
		m.resolve(msg)
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Run):
		return m, m.submit()

	case key.Matches(msg, m.keys.Focus):
		return m, m.toggleFocus()
	}

	if m.focus == focusResult {
		return m, m.scroll(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the editor text to the dispatcher. Blank text does nothing.
func (m *Model) submit() tea.Cmd {
	next, req, err := m.dispatcher.Submit(m.session, m.input.Value())
	if errors.Is(err, console.ErrInFlight) {
		slog.DebugContext(m.ctx, "submission ignored while a query is in flight")
		return nil
	}
	if req == nil {
		return nil
	}

	m.session = next
	m.keys.setRunnable(false)

	return tea.Batch(m.spinner.Tick, m.execute(req))
}

func (m *Model) execute(req *console.Request) tea.Cmd {
	ctx, dispatcher := m.ctx, m.dispatcher

	return func() tea.Msg {
		return resolvedMsg{req: req, res: dispatcher.Execute(ctx, req)}
	}
}

func (m *Model) resolve(msg resolvedMsg) {
	if !m.session.InFlight() {
		// let the dispatcher log the drop, keep what is on screen
		m.session = m.dispatcher.Resolve(m.ctx, m.session, msg.req, msg.res)
		return
	}

	m.session = m.dispatcher.Resolve(m.ctx, m.session, msg.req, msg.res)
	m.keys.setRunnable(!m.session.InFlight())

	m.offset = 0
	m.hasPlan = m.session.Result != nil
	if !m.hasPlan {
		m.plan = result.Plan{}
		return
	}

	m.plan = result.Render(m.session.Result)
	if m.plan.Kind == result.KindRaw {
		m.dump.SetContent(m.plan.Dump)
		m.dump.GotoTop()
	}
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusInput {
		m.focus = focusResult
		m.input.Blur()
		return nil
	}

	m.focus = focusInput
	return m.input.Focus()
}

func (m *Model) scroll(msg tea.KeyMsg) tea.Cmd {
	if !m.hasPlan {
		return nil
	}

	if m.plan.Kind == result.KindRaw {
		var cmd tea.Cmd
		m.dump, cmd = m.dump.Update(msg)
		return cmd
	}

	page := max(1, m.gridRows-1)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.offset--
	case key.Matches(msg, m.keys.Down):
		m.offset++
	case key.Matches(msg, m.keys.PageUp):
		m.offset -= page
	case key.Matches(msg, m.keys.PageDown):
		m.offset += page
	}
	m.offset = max(0, min(m.offset, m.plan.Rows()-1))

	return nil
}

func (m *Model) layout(width, height int) {
	m.width = width
	m.input.SetWidth(width - 1)
	m.help.Width = width

	m.gridRows = max(minGridHeight, height-inputHeight-chromeHeight)
	m.dump.Width = width
	m.dump.Height = m.gridRows
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Query Console"))
	b.WriteString("\n\n")

	border := blurredBorder
	if m.focus == focusInput {
		border = focusedBorder
	}
	b.WriteString(border.Render(m.input.View()))
	b.WriteString("\n")

	run := runStyle.Render("Run")
	if !m.keys.Run.Enabled() {
		run = runOffStyle.Render("Run")
	}
	b.WriteString(run + "  " + m.help.View(m.keys))
	b.WriteString("\n")

	b.WriteString(m.statusView())
	b.WriteString("\n\n")

	switch {
	case m.session.InFlight():
	case m.session.Outcome == console.StateFailed:
		b.WriteString(errorBlock.Width(max(10, m.width-2)).Render(m.session.Err))
	case m.hasPlan && m.plan.Kind == result.KindTabular:
		b.WriteString(m.gridView())
	case m.hasPlan:
		b.WriteString(m.dump.View())
	}

	return b.String()
}

func (m *Model) statusView() string {
	if m.session.InFlight() {
		return m.spinner.View() + " running..."
	}
	if m.session.Status == nil {
		return ""
	}

	line := *m.session.Status
	switch line.Severity {
	case status.SeveritySuccess:
		return successTag.Render(line.Message)
	case status.SeverityError:
		return errorTag.Render(line.Message)
	default:
		return neutralTag.Render(line.Message)
	}
}

func (m *Model) gridView() string {
	if m.plan.Columns() == 0 {
		return neutralTag.Render("(no columns)")
	}

	return printer.Grid(m.plan).
		Offset(m.offset).
		Height(m.gridRows).
		Width(m.width).
		Render()
}
