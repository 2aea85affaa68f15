package report

import (
	"strconv"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/cli"
)

func money(a Amount) string {
	return cli.FormatMoney(a.Value.InexactFloat64())
}

func savings(a Amount) string {
	return cli.FormatSavings(a.Value.InexactFloat64())
}

func rateCell(a *Amount) string {
	if a == nil {
		return "n/a (no volume)"
	}
	return cli.FormatRate(a.Value.InexactFloat64())
}

// Table renders the report as bordered terminal tables with the savings
// headline underneath.
func Table(r Report) string {
	var b strings.Builder

	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "Inputs",
		Headers: []string{"Parameter", "Value"},
		Rows: [][]string{
			{"Baseline minutes/mo", cli.FormatMinutes(r.BaseMinutes)},
			{"Growth factor", strconv.FormatFloat(r.GrowthFactor, 'f', -1, 64) + "x"},
			{"Projected minutes/mo", cli.FormatMinutes(r.GrownMinutes)},
			{"Baseline split", cli.FormatSplit(r.BaselineSplit)},
			{"Current split", cli.FormatSplit(r.Split)},
			{"Reference rates", r.Reference},
			{"Proposed rates", r.Proposed},
		},
	}))
	b.WriteString("\n")

	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "Projected Cost Impact",
		Headers: []string{"", "Monthly", "Annual"},
		Rows: [][]string{
			{"Baseline", money(r.BaselineMonthly), money(r.BaselineAnnual)},
			{"Projected", money(r.ProjectedMonthly), money(r.ProjectedAnnual)},
			{cli.SeparatorRow},
			{cli.SavingsLabel(r.SavingsAnnual.Value.InexactFloat64()), savings(r.SavingsMonthly), savings(r.SavingsAnnual)},
		},
	}))
	b.WriteString("\n")

	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "Break-even Rates (" + r.ShareBasis + " split basis)",
		Headers: []string{"Rate", "Per minute"},
		Rows: [][]string{
			{"Blended", rateCell(r.BreakEvenBlended)},
			{"VRI", rateCell(r.BreakEvenVRI)},
			{"Phone", rateCell(r.BreakEvenPhone)},
		},
	}))
	b.WriteString("\n")

	b.WriteString("  " + cli.RenderSavings("Annual", r.SavingsAnnual.Value.InexactFloat64()) + "\n")
	b.WriteString("  " + cli.RenderSavings("Monthly", r.SavingsMonthly.Value.InexactFloat64()) + "\n")
	return b.String()
}
