package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent    = lipgloss.Color("#FF8C42")
	highlight = lipgloss.Color("#FFB84D")
	muted     = lipgloss.Color("#6B7280")
	danger    = lipgloss.Color("#FF4757")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(accent)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Foreground(highlight).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#1F2937")).
		Background(accent).
		Bold(false)
	return s
}
