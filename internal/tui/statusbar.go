package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/wallforfry/harbor/internal/ui"
)

// RenderStatusBar draws the status on the left and key hints on the right.
// Hints are dropped when both do not fit.
func RenderStatusBar(status, hints string, width int) string {
	left := ui.StyleMuted.Render("  " + status)
	help := ui.StyleMuted.Render(hints + " ")
	if lipgloss.Width(left)+lipgloss.Width(help) > width {
		help = ""
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + help)
}

// RenderHints formats bindings as "key: desc" pairs.
func RenderHints(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
