package cmd

import (
	"fmt"
	"os"

	"github.com/drubhattacharya/budget-simulator/internal/config"
	"github.com/drubhattacharya/budget-simulator/internal/tui"
	"github.com/drubhattacharya/budget-simulator/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// The dashboard can always start; a broken file is fixed from Settings.
		fmt.Fprintf(os.Stderr, "  Warning: %v; using defaults\n", err)
		cfg = config.DefaultConfig()
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(cfg, !config.Exists())
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
