package cmd

import (
	"fmt"

	"github.com/drubhattacharya/budget-simulator/internal/cli"
	"github.com/drubhattacharya/budget-simulator/internal/engine"

	"github.com/spf13/cobra"
)

var breakevenCmd = &cobra.Command{
	Use:   "breakeven",
	Short: "Rates that keep projected spend equal to the baseline",
	RunE:  runBreakEven,
}

func init() {
	rootCmd.AddCommand(breakevenCmd)
}

func runBreakEven(cmd *cobra.Command, _ []string) error {
	cfg, s, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	p, err := engine.Project(s)
	if err != nil {
		return fmt.Errorf("projecting scenario: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BREAK-EVEN RATES"))
	fmt.Println()

	refVRI, refPhone := engine.EffectiveRates(s.Reference)
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Rate", "Current", "Break-even", "Share of Baseline"},
		Rows: [][]string{
			{"Blended", cli.FormatRate(blendedReference(s, p)), cli.FormatBreakEven(p.BreakEvenBlended), "100.0%"},
			{cli.SeparatorRow},
			{"VRI", cli.FormatRate(refVRI), cli.FormatBreakEven(p.BreakEvenModal.VRI), cli.FormatPercent(p.Shares.VRI)},
			{"Phone", cli.FormatRate(refPhone), cli.FormatBreakEven(p.BreakEvenModal.Phone), cli.FormatPercent(p.Shares.Phone)},
		},
	}))
	fmt.Println()

	fmt.Print(cli.RenderNote(
		fmt.Sprintf("Baseline %s/yr over %s grown min/month (%s).",
			cli.FormatMoney(p.Baseline.Annual), cli.FormatMinutes(p.GrownMinutes), cli.FormatSplit(s.Split)),
		fmt.Sprintf("Per-modality shares use the %s split at current contract rates.", s.Basis),
	))

	return saveIfRequested(commandContext(cmd), cfg, s, p)
}

// blendedReference is the average current-contract rate per baseline minute.
func blendedReference(s engine.Scenario, p engine.Projection) float64 {
	if s.BaseMinutes == 0 {
		return 0
	}
	return p.Baseline.Monthly / s.BaseMinutes
}
