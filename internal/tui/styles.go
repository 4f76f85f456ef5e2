package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/nyaa-tui/internal/theme"
)

// GetStyles returns current themed styles
func GetStyles() theme.Styles {
	return theme.Current()
}

// HealthBar renders the seeder share of all peers as a small bar.
func HealthBar(seeders, leechers, width int) string {
	styles := GetStyles()

	filled := 0
	if total := seeders + leechers; total > 0 {
		filled = seeders * width / total
	}
	if seeders > 0 && filled == 0 {
		filled = 1
	}

	var style lipgloss.Style
	switch {
	case seeders >= 10:
		style = styles.Seeders
	case seeders > 0:
		style = styles.Title
	default:
		style = styles.Leechers
	}

	return style.Render(strings.Repeat("█", filled)) + styles.Muted.Render(strings.Repeat("░", width-filled))
}

// TruncateString truncates a string to max display cells with an ellipsis
func TruncateString(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	ellipsis := "..."
	if max <= 3 {
		ellipsis = ""
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > max-len(ellipsis) {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + ellipsis
}

// PadRight pads a string to a specific width
func PadRight(s string, width int) string {
	s = TruncateString(s, width)
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}

// PadLeft pads a string on the left to a specific width
func PadLeft(s string, width int) string {
	s = TruncateString(s, width)
	return strings.Repeat(" ", max(width-lipgloss.Width(s), 0)) + s
}
