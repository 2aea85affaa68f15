package cmd

import (
	"fmt"
	"os"

	"github.com/drubhattacharya/budget-simulator/internal/config"
	"github.com/drubhattacharya/budget-simulator/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup form",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v; starting from defaults\n", err)
		cfg = config.DefaultConfig()
	}

	vals := tui.SetupValuesFrom(cfg)
	form := tui.NewSetupForm(&vals, cfg.RateCardNames()).
		WithInput(os.Stdin).
		WithOutput(os.Stdout)

	// Accessible mode for non-TTY input (piped answers, CI).
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if err := vals.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\n  Saved to %s\n", config.Path())
	fmt.Println("  Run `budget-simulator` for a projection or `budget-simulator tui` for the dashboard.")
	return nil
}
