package components

import (
	"github.com/drubhattacharya/budget-simulator/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom bar: key hints on the left and a
// message on the right. Error messages are drawn in the loss color.
func RenderStatusBar(width int, hints, message string, isError bool) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if isError {
		msgStyle = msgStyle.Foreground(t.Loss).Bold(true)
	}

	left := hintStyle.Render(" " + hints)
	right := msgStyle.Render(message + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// Message wins over hints when space is short.
		return barStyle.Width(width).MaxWidth(width).Render(right)
	}

	return left + barStyle.Render(spaces(padding)) + right
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
