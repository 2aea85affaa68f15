package cmd

import (
	"fmt"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/cli"
	"github.com/drubhattacharya/budget-simulator/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Baseline]")
	fmt.Printf("    Monthly minutes: %s\n", cli.FormatMinutes(cfg.Baseline.Minutes))
	fmt.Printf("    Growth factor:   %gx\n", cfg.Baseline.GrowthFactor)
	fmt.Printf("    VRI share:       %g%%\n", cfg.Baseline.VRIPercent)
	fmt.Printf("    Rate card:       %s\n", config.NormalizeRateCardName(cfg.Baseline.RateCard))
	fmt.Println()

	fmt.Println("  [Proposed]")
	fmt.Printf("    Rates:     %s\n", cli.FormatMode(cfg.ProposedMode()))
	fmt.Printf("    VRI share: %g%%\n", cfg.Proposed.VRIPercent)
	fmt.Println()

	fmt.Println("  [Break-even]")
	fmt.Printf("    Share basis: %s\n", cfg.BreakEven.ShareBasis)
	fmt.Println()

	fmt.Println("  [Rate cards]")
	now := time.Now()
	for _, name := range cfg.RateCardNames() {
		card, _ := cfg.LookupRateCardAt(name, now)
		fmt.Printf("    %-16s %s\n", name, cli.FormatMode(card.Mode()))
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:   %s\n", cfg.Server.Addr)
	fmt.Printf("    Log level: %s\n", cfg.Server.LogLevel)
	fmt.Println()

	fmt.Println("  [History]")
	if cfg.History.Enabled {
		fmt.Printf("    Database: %s\n", cfg.HistoryPath())
	} else {
		fmt.Println("    Disabled")
	}
	fmt.Println()

	fmt.Println("  Run `budget-simulator setup` to reconfigure.")
	return nil
}
