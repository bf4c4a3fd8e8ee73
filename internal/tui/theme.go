// Package tui implements the headless status view: what the shell window
// shows as a spinner page, rendered for a terminal instead.
package tui

import "github.com/charmbracelet/lipgloss"

// Theme centralizes styling for the status view.
type Theme struct {
	Title    lipgloss.Style
	StateOK  lipgloss.Style
	StateRun lipgloss.Style
	StateBad lipgloss.Style
	URL      lipgloss.Style
	Dim      lipgloss.Style
}

func NewDefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1),
		StateOK:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		StateRun: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		StateBad: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		URL: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#61AFEF")),
		Dim: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}
