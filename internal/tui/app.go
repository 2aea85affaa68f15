// Package tui provides the interactive Bubble Tea dashboard for budget-simulator.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/config"
	"github.com/drubhattacharya/budget-simulator/internal/engine"
	"github.com/drubhattacharya/budget-simulator/internal/model"
	"github.com/drubhattacharya/budget-simulator/internal/store"
	"github.com/drubhattacharya/budget-simulator/internal/tui/components"
	"github.com/drubhattacharya/budget-simulator/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tab indexes, matching components.Tabs.
const (
	tabSimulator = iota
	tabBreakEven
	tabHistory
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	historyLimit = 50
	storeTimeout = 5 * time.Second
)

// scenarioStore is the subset of the history database the dashboard uses.
type scenarioStore interface {
	SaveScenario(ctx context.Context, r model.SavedScenario) (int64, error)
	ListScenarios(ctx context.Context, limit int) ([]model.SavedScenario, error)
	Close() error
}

// storeOpener opens the history database. Each command opens and closes
// its own handle so the dashboard never holds the database while idle.
type storeOpener func(ctx context.Context) (scenarioStore, error)

func sqliteOpener(path string) storeOpener {
	return func(ctx context.Context) (scenarioStore, error) {
		st, err := store.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}

// ScenarioSavedMsg is sent when a save to history finishes.
type ScenarioSavedMsg struct {
	ID  int64
	Err error
}

// HistoryLoadedMsg carries the most recent saved scenarios.
type HistoryLoadedMsg struct {
	Items []model.SavedScenario
	Err   error
}

// App is the root Bubble Tea model.
type App struct {
	cfg config.Config

	// Simulator inputs. Only the fields returned by visibleFields take part
	// in a projection.
	inputs  [fieldCount]textinput.Model
	focus   int
	blended bool
	basis   engine.ShareBasis

	// Last projection that succeeded. Invalid input leaves these untouched.
	scenario   engine.Scenario
	projection engine.Projection
	valid      bool
	inputErr   error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	status    string
	statusErr bool

	// Per-tab state
	spinner  spinner.Model // shown while history loads
	history  historyState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	openStore storeOpener
	now       func() time.Time
}

// NewApp creates the dashboard seeded from cfg. firstRun shows the setup
// form before the simulator.
func NewApp(cfg config.Config, firstRun bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		cfg:       cfg,
		needSetup: firstRun,
		spinner:   sp,
		now:       time.Now,
	}
	if cfg.History.Enabled {
		a.openStore = sqliteOpener(cfg.HistoryPath())
	}

	a.inputs = newInputs()
	a.loadConfigInputs()
	a.recompute()

	if firstRun {
		a.setupVals = SetupValuesFrom(cfg)
		a.setupForm = NewSetupForm(&a.setupVals, cfg.RateCardNames())
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		textinput.Blink,
		a.spinner.Tick,
		loadHistoryCmd(a.openStore),
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// loadConfigInputs fills every input from the configuration. Reference
// rates come from the baseline rate card in effect today.
func (a *App) loadConfigInputs() {
	c := a.cfg
	refVRI, refPhone := 0.0, 0.0
	if card, ok := c.LookupRateCardAt(c.Baseline.RateCard, a.now()); ok {
		refVRI, refPhone = engine.EffectiveRates(card.Mode())
	}

	a.setInput(fieldMinutes, c.Baseline.Minutes)
	a.setInput(fieldGrowth, c.Baseline.GrowthFactor)
	a.setInput(fieldBaselineVRI, c.Baseline.VRIPercent)
	a.setInput(fieldVRI, c.Proposed.VRIPercent)
	a.setInput(fieldRefVRI, refVRI)
	a.setInput(fieldRefPhone, refPhone)
	a.setInput(fieldBlended, c.Proposed.BlendedRate)
	a.setInput(fieldPropVRI, c.Proposed.VRIRate)
	a.setInput(fieldPropPhone, c.Proposed.PhoneRate)

	_, sep := c.ProposedMode().(engine.Separate)
	a.blended = !sep
	a.basis, _ = engine.ParseShareBasis(c.BreakEven.ShareBasis)
	a.setFocus(0)
}

// loadScenario fills the inputs from a saved or restored scenario.
func (a *App) loadScenario(s engine.Scenario) {
	refVRI, refPhone := engine.EffectiveRates(s.Reference)
	a.setInput(fieldMinutes, s.BaseMinutes)
	a.setInput(fieldGrowth, s.GrowthFactor)
	a.setInput(fieldBaselineVRI, s.BaselineSplit.VRIPercent)
	a.setInput(fieldVRI, s.Split.VRIPercent)
	a.setInput(fieldRefVRI, refVRI)
	a.setInput(fieldRefPhone, refPhone)

	switch p := s.Proposed.(type) {
	case engine.Blended:
		a.blended = true
		a.setInput(fieldBlended, p.Rate)
	case engine.Separate:
		a.blended = false
		a.setInput(fieldPropVRI, p.VRI)
		a.setInput(fieldPropPhone, p.Phone)
	}
	a.basis = s.Basis
	a.setFocus(0)
	a.recompute()
}

// recompute rebuilds the scenario from the inputs and projects it. On
// failure the error is shown and the previous projection stays on screen.
func (a *App) recompute() {
	s, err := a.scenarioFromInputs()
	if err == nil {
		var p engine.Projection
		if p, err = engine.Project(s); err == nil {
			a.scenario = s
			a.projection = p
			a.valid = true
			a.inputErr = nil
			return
		}
	}
	a.inputErr = err
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scroll(-1)
		case tea.MouseButtonWheelDown:
			a.scroll(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case ScenarioSavedMsg:
		if msg.Err != nil {
			a.setStatus("save failed: "+msg.Err.Error(), true)
			return a, nil
		}
		a.setStatus(fmt.Sprintf("saved scenario #%d", msg.ID), false)
		return a, loadHistoryCmd(a.openStore)

	case spinner.TickMsg:
		if a.openStore == nil || a.history.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case HistoryLoadedMsg:
		a.history.loaded = true
		a.history.err = msg.Err
		if msg.Err == nil {
			a.history.items = msg.Items
		}
		a.history.clampCursor()
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup form intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch a.activeTab {
		case tabSimulator:
			if m, cmd, ok := a.updateSimulatorKey(msg); ok {
				return m, cmd
			}
		case tabHistory:
			if m, cmd, ok := a.updateHistoryKey(msg); ok {
				return m, cmd
			}
		case tabSettings:
			switch key {
			case "j", "down":
				if a.settings.cursor < settingsFieldCount-1 {
					a.settings.cursor++
				}
				return a, nil
			case "k", "up":
				if a.settings.cursor > 0 {
					a.settings.cursor--
				}
				return a, nil
			case "enter":
				return a.settingsStartEdit()
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "m":
			a.toggleMode()
			return a, nil
		case "b":
			a.toggleBasis()
			return a, nil
		case "s":
			return a.saveCurrent()
		case "r":
			a.loadConfigInputs()
			a.recompute()
			a.setStatus("inputs reset to configured defaults", false)
			return a, nil
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}

		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
				if idx == tabHistory {
					return a, loadHistoryCmd(a.openStore)
				}
			}
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Cursor blink for the focused simulator input.
	var cmd tea.Cmd
	id := a.focusedField()
	a.inputs[id], cmd = a.inputs[id].Update(msg)
	return a, cmd
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if err := a.setupVals.Apply(&a.cfg); err != nil {
			a.setStatus("setup: "+err.Error(), true)
		} else if err := config.Save(a.cfg); err != nil {
			a.setStatus("saving config: "+err.Error(), true)
		} else {
			a.setStatus("saved "+config.Path(), false)
		}
		theme.SetActive(a.cfg.Appearance.Theme)
		a.loadConfigInputs()
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a *App) toggleMode() {
	a.blended = !a.blended
	a.setFocus(a.focus)
	a.recompute()
	if a.blended {
		a.setStatus("proposed rates: blended", false)
	} else {
		a.setStatus("proposed rates: separate", false)
	}
}

func (a *App) toggleBasis() {
	if a.basis == engine.BasisCurrent {
		a.basis = engine.BasisBaseline
	} else {
		a.basis = engine.BasisCurrent
	}
	a.recompute()
	a.setStatus("break-even share basis: "+a.basis.String(), false)
}

// saveCurrent stores the last good projection. Nothing is saved while the
// inputs are invalid, so history never records a scenario that was not shown.
func (a App) saveCurrent() (tea.Model, tea.Cmd) {
	switch {
	case a.openStore == nil:
		a.setStatus("history is disabled", true)
		return a, nil
	case a.inputErr != nil || !a.valid:
		a.setStatus("fix invalid input before saving", true)
		return a, nil
	}
	rec := model.NewSavedScenario("dashboard", a.scenario, a.projection, a.now())
	return a, saveScenarioCmd(a.openStore, rec)
}

func (a *App) scroll(delta int) {
	switch a.activeTab {
	case tabSimulator:
		a.moveFocus(delta)
	case tabHistory:
		a.history.cursor += delta
		a.history.clampCursor()
	case tabSettings:
		a.settings.cursor += delta
		if a.settings.cursor < 0 {
			a.settings.cursor = 0
		}
		if a.settings.cursor >= settingsFieldCount {
			a.settings.cursor = settingsFieldCount - 1
		}
	}
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budget-simulator needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"i e h x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"↑ ↓ Tab", "Move between inputs"},
			{"j k", "Navigate lists"},
		}},
		{"Simulator", []struct{ key, desc string }{
			{"0-9 . ⌫", "Edit focused input"},
			{"m", "Toggle blended / separate rates"},
			{"b", "Toggle break-even share basis"},
			{"s", "Save scenario to history"},
			{"r", "Reset inputs to config"},
		}},
		{"General", []struct{ key, desc string }{
			{"Enter", "Edit setting / Restore scenario"},
			{"Esc", "Cancel"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + scenario pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	mode := "separate"
	if a.blended {
		mode = "blended"
	}
	pill := pillStyle.Render(" ") +
		pillAccent.Render(mode) +
		pillStyle.Render(" │ basis ") + pillAccent.Render(a.basis.String()) +
		pillStyle.Render(" │ card ") + pillAccent.Render(config.NormalizeRateCardName(a.cfg.Baseline.RateCard)) +
		pillStyle.Render(" ")

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)

	// 2. Status bar: validation errors take precedence over other messages.
	msg, isErr := a.status, a.statusErr
	if a.inputErr != nil {
		msg, isErr = a.inputErr.Error(), true
	}
	statusBar := components.RenderStatusBar(w, a.statusHints(), msg, isErr)

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabSimulator:
		content = a.renderSimulatorTab(cw)
	case tabBreakEven:
		content = a.renderBreakEvenTab(cw)
	case tabHistory:
		content = a.renderHistoryTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines, fill gaps, center
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabSimulator:
		return "[↑↓] field  [m] mode  [b] basis  [s] save  [?] help"
	case tabHistory:
		return "[j/k] select  [Enter] restore  [?] help"
	case tabSettings:
		return "[j/k] select  [Enter] edit  [?] help"
	}
	return "[m] mode  [b] basis  [s] save  [?] help"
}

// ─── Commands ───────────────────────────────────────────────────

func saveScenarioCmd(open storeOpener, rec model.SavedScenario) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		st, err := open(ctx)
		if err != nil {
			return ScenarioSavedMsg{Err: err}
		}
		defer st.Close()

		id, err := st.SaveScenario(ctx, rec)
		return ScenarioSavedMsg{ID: id, Err: err}
	}
}

func loadHistoryCmd(open storeOpener) tea.Cmd {
	if open == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		st, err := open(ctx)
		if err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		defer st.Close()

		items, err := st.ListScenarios(ctx, historyLimit)
		return HistoryLoadedMsg{Items: items, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
