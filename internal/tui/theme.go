package tui

import "github.com/charmbracelet/lipgloss"

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(cAccent).MarginBottom(1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(cGood)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	logStyle    = lipgloss.NewStyle().Foreground(cMuted)
	pathStyle   = lipgloss.NewStyle().Foreground(cPrimary)
)
