package tui

import (
	"fmt"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/cli"
	"github.com/drubhattacharya/budget-simulator/internal/engine"
	"github.com/drubhattacharya/budget-simulator/internal/tui/components"
	"github.com/drubhattacharya/budget-simulator/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// sensitivitySteps are offsets from the blended break-even rate, in $/min.
var sensitivitySteps = []float64{-0.10, -0.05, 0, 0.05, 0.10}

func (a App) renderBreakEvenTab(cw int) string {
	if !a.valid {
		return components.ContentCard("Break-even", "Enter valid inputs to see break-even rates.", cw)
	}
	p := a.projection

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Blended break-even", Value: cli.FormatBreakEven(p.BreakEvenBlended),
			Note: "same annual cost as baseline"},
		{Label: "VRI break-even", Value: cli.FormatBreakEven(p.BreakEvenModal.VRI),
			Note: fmt.Sprintf("%s of baseline cost", cli.FormatPercent(p.Shares.VRI))},
		{Label: "Phone break-even", Value: cli.FormatBreakEven(p.BreakEvenModal.Phone),
			Note: fmt.Sprintf("%s of baseline cost", cli.FormatPercent(p.Shares.Phone))},
	}, cw))
	b.WriteString("\n")

	halfs := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		b.WriteString(a.renderGaugeCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderSensitivityCard(cw))
	} else {
		b.WriteString(components.CardRow([]string{
			a.renderGaugeCard(halfs[0]),
			a.renderSensitivityCard(halfs[1]),
		}))
	}
	return b.String()
}

// renderGaugeCard compares each proposed rate with the rate that would
// hold spend at the baseline.
func (a App) renderGaugeCard(w int) string {
	t := theme.Active
	p := a.projection
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	barW := components.CardInnerWidth(w) - 14
	var lines []string
	switch m := a.scenario.Proposed.(type) {
	case engine.Blended:
		lines = append(lines, components.RateGauge("Blended", m.Rate, breakEvenOrZero(p.BreakEvenBlended), 7, barW))
	case engine.Separate:
		lines = append(lines,
			components.RateGauge("VRI", m.VRI, breakEvenOrZero(p.BreakEvenModal.VRI), 7, barW),
			components.RateGauge("Phone", m.Phone, breakEvenOrZero(p.BreakEvenModal.Phone), 7, barW),
		)
	}
	lines = append(lines, "",
		dimStyle.Render(fmt.Sprintf("Shares apportioned on the %s split.", a.basis)),
		dimStyle.Render("Over 100% means spend rises above baseline."))

	return components.ContentCard("Proposed vs break-even", strings.Join(lines, "\n"), w)
}

// renderSensitivityCard shows annual savings at blended rates around the
// break-even rate.
func (a App) renderSensitivityCard(w int) string {
	t := theme.Active
	p := a.projection
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	if !p.BreakEvenBlended.Defined {
		return components.ContentCard("Sensitivity", labelStyle.Render("No projected volume."), w)
	}

	var lines []string
	for _, step := range sensitivitySteps {
		rate := p.BreakEvenBlended.Rate + step
		if rate < 0 {
			continue
		}
		cost, err := engine.ComputeCost(p.GrownMinutes, a.scenario.Split, engine.Blended{Rate: rate})
		if err != nil {
			continue
		}
		savings := engine.ComputeSavings(p.Baseline, cost)
		valueStyle := lipgloss.NewStyle().
			Foreground(t.SavingsColor(cli.SavingsLabel(savings.Annual) == "Loss")).
			Background(t.Surface)

		lines = append(lines,
			labelStyle.Render(fmt.Sprintf("%-14s", cli.FormatRate(rate)))+
				space.Render(" ")+
				valueStyle.Render(fmt.Sprintf("%16s", cli.FormatSavings(savings.Annual))))
	}

	return components.ContentCard("Sensitivity (annual, blended)", strings.Join(lines, "\n"), w)
}

func breakEvenOrZero(b engine.BreakEven) float64 {
	if !b.Defined {
		return 0
	}
	return b.Rate
}
