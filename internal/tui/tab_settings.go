package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/config"
	"github.com/drubhattacharya/budget-simulator/internal/engine"
	"github.com/drubhattacharya/budget-simulator/internal/tui/components"
	"github.com/drubhattacharya/budget-simulator/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldRateCard = iota
	settingsFieldShareBasis
	settingsFieldMode
	settingsFieldGrowth
	settingsFieldTheme
	settingsFieldHistory
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	cfg := a.cfg

	switch a.settings.cursor {
	case settingsFieldRateCard:
		ti.Placeholder = strings.Join(cfg.RateCardNames(), ", ")
		ti.SetValue(config.NormalizeRateCardName(cfg.Baseline.RateCard))
	case settingsFieldShareBasis:
		ti.Placeholder = "current or baseline"
		ti.SetValue(a.basis.String())
	case settingsFieldMode:
		ti.Placeholder = "blended or separate"
		ti.SetValue(cfg.Proposed.Mode)
	case settingsFieldGrowth:
		ti.Placeholder = "1.2"
		ti.SetValue(formatInput(cfg.Baseline.GrowthFactor))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldHistory:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(cfg.History.Enabled))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		if a.settings.saved && a.settings.cursor == settingsFieldHistory {
			return a, loadHistoryCmd(a.openStore)
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value, applies it to the running
// dashboard and writes the config file. Invalid values leave the
// configuration unchanged.
func (a *App) settingsSave() {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldRateCard:
		name := config.NormalizeRateCardName(val)
		if _, ok := cfg.LookupRateCard(name); !ok {
			a.settings.saveErr = fmt.Errorf("unknown rate card %q", val)
			return
		}
		cfg.Baseline.RateCard = name
	case settingsFieldShareBasis:
		basis, err := engine.ParseShareBasis(val)
		if err != nil {
			a.settings.saveErr = err
			return
		}
		cfg.BreakEven.ShareBasis = basis.String()
	case settingsFieldMode:
		mode := strings.ToLower(val)
		if mode != "blended" && mode != "separate" {
			a.settings.saveErr = fmt.Errorf("mode must be blended or separate")
			return
		}
		cfg.Proposed.Mode = mode
	case settingsFieldGrowth:
		g, err := strconv.ParseFloat(val, 64)
		if err != nil || g < 0 {
			a.settings.saveErr = fmt.Errorf("growth factor must be a non-negative number")
			return
		}
		cfg.Baseline.GrowthFactor = g
	case settingsFieldTheme:
		if _, ok := theme.Lookup(val); !ok {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
	case settingsFieldHistory:
		on, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("history must be true or false")
			return
		}
		cfg.History.Enabled = on
	}

	if err := config.Save(cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = nil
	a.applySettings(cfg)
}

// applySettings makes a saved configuration take effect without touching
// inputs the user has not asked to change.
func (a *App) applySettings(cfg config.Config) {
	prev := a.cfg
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)

	if cfg.History.Enabled {
		a.openStore = sqliteOpener(cfg.HistoryPath())
	} else {
		a.openStore = nil
		a.history = historyState{}
	}

	if cfg.Baseline.RateCard != prev.Baseline.RateCard {
		if card, ok := cfg.LookupRateCardAt(cfg.Baseline.RateCard, a.now()); ok {
			vri, phone := engine.EffectiveRates(card.Mode())
			a.setInput(fieldRefVRI, vri)
			a.setInput(fieldRefPhone, phone)
		}
	}
	if cfg.Baseline.GrowthFactor != prev.Baseline.GrowthFactor {
		a.setInput(fieldGrowth, cfg.Baseline.GrowthFactor)
	}
	if cfg.Proposed.Mode != prev.Proposed.Mode {
		a.blended = cfg.Proposed.Mode != "separate"
		a.setFocus(a.focus)
	}
	if basis, err := engine.ParseShareBasis(cfg.BreakEven.ShareBasis); err == nil {
		a.basis = basis
	}
	a.recompute()
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	gainStyle := lipgloss.NewStyle().Foreground(t.Gain).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	rateCard := config.NormalizeRateCardName(cfg.Baseline.RateCard)
	if card, ok := cfg.LookupRateCardAt(rateCard, a.now()); ok {
		rateCard += " (" + describeMode(card.Mode()) + ")"
	}

	fields := []struct{ label, value string }{
		{"Rate card", rateCard},
		{"Share basis", cfg.BreakEven.ShareBasis},
		{"Proposed mode", cfg.Proposed.Mode},
		{"Growth factor", formatInput(cfg.Baseline.GrowthFactor) + "x"},
		{"Theme", cfg.Appearance.Theme},
		{"History", strconv.FormatBool(cfg.History.Enabled)},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-16s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-16s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := innerW - used; pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(gainStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	historyPath := "(disabled)"
	if cfg.History.Enabled {
		historyPath = cfg.HistoryPath()
	}

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:    ") + valueStyle.Render(config.Path()) + "\n")
	infoBody.WriteString(labelStyle.Render("History db:     ") + valueStyle.Render(historyPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Rate cards:     ") + valueStyle.Render(strings.Join(cfg.RateCardNames(), ", ")))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}

func describeMode(m engine.RateMode) string {
	if b, ok := m.(engine.Blended); ok {
		return fmt.Sprintf("blended %s", formatInput(b.Rate))
	}
	vri, phone := engine.EffectiveRates(m)
	return fmt.Sprintf("VRI %s, phone %s", formatInput(vri), formatInput(phone))
}
