// Package styles centralizes lipgloss styles for the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Title bar
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)

	// Tabs
	TabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Underline(true)
	TabInactive = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	// List rows
	Selected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))
	RepoHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	Category = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
	Dimmed = lipgloss.NewStyle().
		Foreground(lipgloss.Color("243"))
	Playing = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	// Status line
	StatusInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
	StatusError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	// Prompts
	Prompt = lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true)
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
)
