package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wallforfry/harbor/internal/ui"
)

// RenderHeader draws the title bar with the registry host on the right.
func RenderHeader(title, subtitle, host string, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(" " + title)
	if subtitle != "" {
		left += ui.StyleMuted.Render(" | " + subtitle)
	}

	right := ""
	if host != "" {
		right = ui.StyleInfo.Render(host + " ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(ui.ColorHighlight).
		Width(width).
		Render(left + padding + right)
}
