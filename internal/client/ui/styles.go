package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	success = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	danger  = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	warning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	helpStyle  = lipgloss.NewStyle().Foreground(muted).MarginTop(1)
	errorStyle = lipgloss.NewStyle().Foreground(danger)
	okStyle    = lipgloss.NewStyle().Foreground(success)
	warnStyle  = lipgloss.NewStyle().Foreground(warning)
	labelStyle = lipgloss.NewStyle().Foreground(muted).Width(18)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 3)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(muted).
			Width(3).
			Align(lipgloss.Center)

	focusedCellStyle = cellStyle.BorderForeground(accent).Bold(true)
)

// strengthColors follows the 1..5 score of flow.Strength.
var strengthColors = []lipgloss.AdaptiveColor{danger, warning, warning, success, success}
