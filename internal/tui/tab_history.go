package tui

import (
	"fmt"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/cli"
	"github.com/drubhattacharya/budget-simulator/internal/model"
	"github.com/drubhattacharya/budget-simulator/internal/tui/components"
	"github.com/drubhattacharya/budget-simulator/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// historyState tracks the history tab.
type historyState struct {
	items  []model.SavedScenario
	cursor int
	loaded bool
	err    error
}

func (h *historyState) clampCursor() {
	if h.cursor >= len(h.items) {
		h.cursor = len(h.items) - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
}

func (a App) updateHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "j", "down":
		a.history.cursor++
		a.history.clampCursor()
		return a, nil, true
	case "k", "up":
		a.history.cursor--
		a.history.clampCursor()
		return a, nil, true
	case "g":
		a.history.cursor = 0
		return a, nil, true
	case "G":
		a.history.cursor = len(a.history.items) - 1
		a.history.clampCursor()
		return a, nil, true
	case "enter":
		if len(a.history.items) == 0 {
			return a, nil, true
		}
		rec := a.history.items[a.history.cursor]
		s, err := rec.Scenario()
		if err != nil {
			a.setStatus("restore failed: "+err.Error(), true)
			return a, nil, true
		}
		a.loadScenario(s)
		a.activeTab = tabSimulator
		a.setStatus(fmt.Sprintf("restored scenario #%d", rec.ID), false)
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderHistoryTab(cw, h int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	switch {
	case a.openStore == nil:
		return components.ContentCard("History", mutedStyle.Render("History is disabled. Enable it in Settings."), cw)
	case a.history.err != nil:
		return components.ContentCard("History", mutedStyle.Render("Could not load history: "+a.history.err.Error()), cw)
	case !a.history.loaded:
		return components.ContentCard("History", a.spinner.View()+mutedStyle.Render(" Loading saved scenarios…"), cw)
	case len(a.history.items) == 0:
		return components.ContentCard("History", mutedStyle.Render("No saved scenarios yet. Press [s] on the Simulator tab."), cw)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)

	innerW := components.CardInnerWidth(cw)
	const layout = "%-5s %-16s %-9s %14s %14s %14s %13s"

	var b strings.Builder
	b.WriteString(headerStyle.Render(padRight(fmt.Sprintf(layout,
		"#", "Saved", "Mode", "Baseline", "Projected", "Savings", "Break-even"), innerW)))
	b.WriteString("\n")

	// Keep the cursor visible: card border, title and header take 4 lines.
	visible := h - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if a.history.cursor >= visible {
		start = a.history.cursor - visible + 1
	}
	end := start + visible
	if end > len(a.history.items) {
		end = len(a.history.items)
	}

	for i := start; i < end; i++ {
		r := a.history.items[i]
		be := "n/a"
		if r.BreakEvenRate != nil {
			be = cli.FormatRate(*r.BreakEvenRate)
		}
		line := padRight(fmt.Sprintf(layout,
			fmt.Sprintf("%d", r.ID),
			r.SavedAt.Local().Format("2006-01-02 15:04"),
			r.ProposedMode,
			cli.FormatMoney(r.BaselineAnnual),
			cli.FormatMoney(r.ProjectedAnnual),
			cli.FormatSavings(r.SavingsAnnual),
			be,
		), innerW)

		if i == a.history.cursor {
			b.WriteString(selStyle.Render(truncStr(line, innerW)))
		} else {
			b.WriteString(rowStyle.Render(truncStr(line, innerW)))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	title := fmt.Sprintf("History (%d)", len(a.history.items))
	return components.ContentCard(title, b.String(), cw)
}

func padRight(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
