package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	name       lipgloss.Style
	device     lipgloss.Style
	detail     lipgloss.Style
	present    lipgloss.Style
	absent     lipgloss.Style
	summary    lipgloss.Style
	empty      lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		device:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		present:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		absent:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		summary:    lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("250")),
		empty:      lipgloss.NewStyle().Faint(true),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
