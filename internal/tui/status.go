package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/webuidesk/webuidesk/internal/events"
	"github.com/webuidesk/webuidesk/internal/supervisor"
)

// StatusFunc yields the current supervisor snapshot.
type StatusFunc func() supervisor.Status

type eventMsg events.Event

// hubClosedMsg signals the event subscription ended.
type hubClosedMsg struct{}

// Model is the BubbleTea model for the headless status view.
type Model struct {
	statusFn StatusFunc
	hubCh    <-chan events.Event

	status   supervisor.Status
	attempts int
	spinner  spinner.Model
	theme    Theme
	quitting bool
}

// New creates a status view fed by the given snapshot function and hub
// subscription.
func New(statusFn StatusFunc, hubCh <-chan events.Event) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		statusFn: statusFn,
		hubCh:    hubCh,
		status:   statusFn(),
		spinner:  sp,
		theme:    NewDefaultTheme(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, receiveNextEvent(m.hubCh))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		if msg.Type == events.TypeProbeAttempt {
			m.attempts++
		}
		m.status = m.statusFn()
		return m, receiveNextEvent(m.hubCh)

	case hubClosedMsg:
		m.status = m.statusFn()
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b []byte
	b = append(b, m.theme.Title.Render("webuidesk")...)
	b = append(b, '\n', '\n')

	switch m.status.State {
	case "Ready":
		b = append(b, fmt.Sprintf("  %s  server is ready\n", m.theme.StateOK.Render("●"))...)
		b = append(b, fmt.Sprintf("  %s\n", m.theme.URL.Render(m.status.URL))...)
	case "Failed":
		b = append(b, fmt.Sprintf("  %s  failed: %s\n", m.theme.StateBad.Render("✗"), m.status.Failure)...)
	case "Stopped":
		b = append(b, fmt.Sprintf("  %s  stopped\n", m.theme.Dim.Render("○"))...)
	default:
		b = append(b, fmt.Sprintf("  %s %s\n", m.spinner.View(), m.theme.StateRun.Render(m.status.State))...)
	}

	if m.attempts > 0 && m.status.State == "Polling" {
		b = append(b, m.theme.Dim.Render(fmt.Sprintf("  probes: %d", m.attempts))...)
		b = append(b, '\n')
	}

	b = append(b, '\n')
	b = append(b, m.theme.Dim.Render("  q to quit")...)
	b = append(b, '\n')
	return string(b)
}

// receiveNextEvent waits for the next hub event.
func receiveNextEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return hubClosedMsg{}
		}
		return eventMsg(ev)
	}
}
