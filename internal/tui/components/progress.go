package components

import (
	"fmt"

	"github.com/drubhattacharya/budget-simulator/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// RateGauge renders the proposed rate as a fraction of the break-even rate.
// A ratio at or under 1 keeps spend at or below baseline and is drawn in the
// gain color; anything above is drawn in the loss color with the bar full.
func RateGauge(label string, proposed, breakEven float64, labelW, barWidth int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if barWidth < 4 {
		barWidth = 4
	}

	head := labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + spaceStyle.Render(" ")
	if breakEven <= 0 {
		return head + dimStyle.Render("n/a")
	}

	ratio := proposed / breakEven
	color := t.SavingsColor(ratio > 1)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)

	return head +
		bar.ViewAs(clamp01(ratio)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", ratio*100))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
