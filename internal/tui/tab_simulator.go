package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/cli"
	"github.com/drubhattacharya/budget-simulator/internal/engine"
	"github.com/drubhattacharya/budget-simulator/internal/tui/components"
	"github.com/drubhattacharya/budget-simulator/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fieldID int

const (
	fieldMinutes fieldID = iota
	fieldGrowth
	fieldBaselineVRI
	fieldVRI
	fieldRefVRI
	fieldRefPhone
	fieldBlended
	fieldPropVRI
	fieldPropPhone
	fieldCount // sentinel
)

var fieldLabels = [fieldCount]string{
	fieldMinutes:     "Monthly minutes",
	fieldGrowth:      "Growth factor",
	fieldBaselineVRI: "Baseline VRI %",
	fieldVRI:         "Current VRI %",
	fieldRefVRI:      "Current VRI rate",
	fieldRefPhone:    "Current phone rate",
	fieldBlended:     "Proposed rate",
	fieldPropVRI:     "Proposed VRI rate",
	fieldPropPhone:   "Proposed phone rate",
}

// numericRunes are the only characters an input accepts. Letters stay free
// for commands.
const numericRunes = "0123456789.-"

func newInputs() [fieldCount]textinput.Model {
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 16
		ti.Width = 14
		inputs[i] = ti
	}
	return inputs
}

func formatInput(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (a *App) setInput(id fieldID, v float64) {
	a.inputs[id].SetValue(formatInput(v))
}

// visibleFields lists the inputs used by the current rate mode, in display order.
func (a App) visibleFields() []fieldID {
	ids := []fieldID{fieldMinutes, fieldGrowth, fieldBaselineVRI, fieldVRI, fieldRefVRI, fieldRefPhone}
	if a.blended {
		return append(ids, fieldBlended)
	}
	return append(ids, fieldPropVRI, fieldPropPhone)
}

func (a App) focusedField() fieldID {
	return a.visibleFields()[a.focus]
}

func (a *App) setFocus(idx int) {
	visible := a.visibleFields()
	if idx < 0 {
		idx = 0
	}
	if idx >= len(visible) {
		idx = len(visible) - 1
	}
	a.focus = idx
	for i := range a.inputs {
		a.inputs[i].Blur()
	}
	a.inputs[visible[idx]].Focus()
}

// moveFocus moves between visible inputs, wrapping at both ends.
func (a *App) moveFocus(delta int) {
	n := len(a.visibleFields())
	a.setFocus(((a.focus+delta)%n + n) % n)
}

func parseField(id fieldID, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: %s is required", engine.ErrInvalidInput, strings.ToLower(fieldLabels[id]))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a number", engine.ErrInvalidInput, strings.ToLower(fieldLabels[id]), s)
	}
	return f, nil
}

func (a App) scenarioFromInputs() (engine.Scenario, error) {
	var v [fieldCount]float64
	for _, id := range a.visibleFields() {
		f, err := parseField(id, a.inputs[id].Value())
		if err != nil {
			return engine.Scenario{}, err
		}
		v[id] = f
	}

	var proposed engine.RateMode = engine.Separate{VRI: v[fieldPropVRI], Phone: v[fieldPropPhone]}
	if a.blended {
		proposed = engine.Blended{Rate: v[fieldBlended]}
	}

	return engine.Scenario{
		BaseMinutes:   v[fieldMinutes],
		GrowthFactor:  v[fieldGrowth],
		BaselineSplit: engine.NewSplit(v[fieldBaselineVRI]),
		Split:         engine.NewSplit(v[fieldVRI]),
		Reference:     engine.Separate{VRI: v[fieldRefVRI], Phone: v[fieldRefPhone]},
		Proposed:      proposed,
		Basis:         a.basis,
	}, nil
}

func isEditKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyHome, tea.KeyEnd, tea.KeyCtrlU, tea.KeyCtrlK:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if !strings.ContainsRune(numericRunes, r) {
				return false
			}
		}
		return len(msg.Runes) > 0
	}
	return false
}

// updateSimulatorKey handles focus movement and editing. ok is false when
// the key should fall through to the global bindings.
func (a App) updateSimulatorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "up", "shift+tab":
		a.moveFocus(-1)
		return a, nil, true
	case "down", "tab", "enter":
		a.moveFocus(1)
		return a, nil, true
	}

	if !isEditKey(msg) {
		return a, nil, false
	}

	id := a.focusedField()
	var cmd tea.Cmd
	a.inputs[id], cmd = a.inputs[id].Update(msg)
	a.status = ""
	a.recompute()
	return a, cmd, true
}

func (a App) renderSimulatorTab(cw int) string {
	inputW := 46
	resultsW := cw - inputW
	if a.isCompactLayout() {
		inputW, resultsW = cw, cw
	}

	inputs := a.renderInputsCard(inputW)
	results := a.renderResults(resultsW)

	if a.isCompactLayout() {
		return inputs + "\n" + results
	}
	return components.CardRow([]string{inputs, results})
}

func (a App) renderInputsCard(w int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	focusLabel := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Loss).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, id := range a.visibleFields() {
		if i == a.focus {
			b.WriteString(markerStyle.Render("▸ "))
			b.WriteString(focusLabel.Render(fmt.Sprintf("%-20s ", fieldLabels[id])))
			b.WriteString(a.inputs[id].View())
		} else {
			b.WriteString(space.Render("  "))
			b.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", fieldLabels[id])))
			b.WriteString(valueStyle.Render(a.inputs[id].Value()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	mode := "separate rates"
	if a.blended {
		mode = "blended rate"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("[m] %s  [b] basis: %s", mode, a.basis)))

	if a.inputErr != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(truncStr("✗ "+a.inputErr.Error(), components.CardInnerWidth(w))))
	}

	return components.FocusedCard("Inputs", b.String(), w)
}

func (a App) renderResults(w int) string {
	t := theme.Active
	if !a.valid {
		return components.ContentCard("Projection", "Enter valid inputs to see a projection.", w)
	}

	p := a.projection
	s := p.Savings
	savingsColor := t.SavingsColor(cli.SavingsLabel(s.Annual) == "Loss")

	rows := []string{
		components.MetricCardRow([]components.Metric{
			{Label: "Baseline annual cost", Value: cli.FormatMoney(p.Baseline.Annual),
				Note: cli.FormatMoney(p.Baseline.Monthly) + " / month"},
			{Label: "Projected annual cost", Value: cli.FormatMoney(p.Projected.Annual),
				Note: cli.FormatMoney(p.Projected.Monthly) + " / month"},
		}, w),
		components.MetricCardRow([]components.Metric{
			{Label: "Annual " + cli.SavingsLabel(s.Annual), Value: cli.FormatSavings(s.Annual), Color: savingsColor},
			{Label: "Monthly " + cli.SavingsLabel(s.Monthly), Value: cli.FormatSavings(s.Monthly), Color: savingsColor},
		}, w),
	}

	caption := fmt.Sprintf("Baseline: %s min/month at %s, %s.\nProjected: %s min/month at %s, %s.",
		cli.FormatMinutes(a.scenario.BaseMinutes),
		cli.FormatMode(a.scenario.Reference),
		cli.FormatSplit(a.scenario.BaselineSplit),
		cli.FormatMinutes(p.GrownMinutes),
		cli.FormatMode(a.scenario.Proposed),
		cli.FormatSplit(a.scenario.Split),
	)
	rows = append(rows, components.ContentCard("", caption, w))

	return strings.Join(rows, "\n")
}
