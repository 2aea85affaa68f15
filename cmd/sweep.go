package cmd

import (
	"errors"
	"fmt"
	"math"

	"github.com/drubhattacharya/budget-simulator/internal/cli"
	"github.com/drubhattacharya/budget-simulator/internal/engine"

	"github.com/spf13/cobra"
)

const maxSweepRows = 500

var (
	flagSweepFrom float64
	flagSweepTo   float64
	flagSweepStep float64
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Annual savings across a range of proposed blended rates",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().Float64Var(&flagSweepFrom, "from", 0.50, "Lowest blended rate ($/min)")
	sweepCmd.Flags().Float64Var(&flagSweepTo, "to", 1.00, "Highest blended rate ($/min)")
	sweepCmd.Flags().Float64Var(&flagSweepStep, "step", 0.05, "Rate increment ($/min)")
	rootCmd.AddCommand(sweepCmd)
}

type sweepRow struct {
	rate      float64
	projected engine.Cost
	savings   engine.Savings
}

// sweepRates projects s once per blended rate in [from, to].
func sweepRates(s engine.Scenario, from, to, step float64) ([]sweepRow, error) {
	for _, v := range []float64{from, to, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New("--from, --to and --step must be finite")
		}
	}
	if step <= 0 {
		return nil, errors.New("--step must be positive")
	}
	if from < 0 || to < from {
		return nil, errors.New("--from must be non-negative and not above --to")
	}
	// Count in float64: the quotient can exceed any int.
	rowCount := math.Floor((to-from)/step+1e-9) + 1
	if math.IsInf(rowCount, 0) || rowCount > maxSweepRows {
		return nil, fmt.Errorf("sweep would produce %.0f rows (max %d); raise --step", rowCount, maxSweepRows)
	}
	n := int(rowCount)

	rows := make([]sweepRow, 0, n)
	for i := 0; i < n; i++ {
		// Multiply rather than accumulate so the last rate lands on --to.
		rate := from + float64(i)*step
		s.Proposed = engine.Blended{Rate: rate}
		p, err := engine.Project(s)
		if err != nil {
			return nil, fmt.Errorf("rate %.4f: %w", rate, err)
		}
		rows = append(rows, sweepRow{rate: rate, projected: p.Projected, savings: p.Savings})
	}
	return rows, nil
}

func runSweep(cmd *cobra.Command, _ []string) error {
	_, s, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	base, err := engine.Project(s)
	if err != nil {
		return fmt.Errorf("projecting scenario: %w", err)
	}

	rows, err := sweepRates(s, flagSweepFrom, flagSweepTo, flagSweepStep)
	if err != nil {
		return err
	}

	maxAbs := 0.0
	for _, r := range rows {
		maxAbs = math.Max(maxAbs, math.Abs(r.savings.Annual))
	}

	table := cli.Table{Headers: []string{"Blended Rate", "Projected / yr", "Savings / yr", "Loss ◂ ▸ Savings"}}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			cli.FormatRate(r.rate),
			cli.FormatMoney(r.projected.Annual),
			cli.FormatSavings(r.savings.Annual),
			cli.RenderSignedBar(r.savings.Annual, maxAbs, 10),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RATE SWEEP"))
	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	fmt.Println()

	if !flagQuiet {
		fmt.Print(cli.RenderNote(
			fmt.Sprintf("Baseline %s/yr. Break-even blended rate: %s.",
				cli.FormatMoney(base.Baseline.Annual), cli.FormatBreakEven(base.BreakEvenBlended)),
		))
	}
	return nil
}
