package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/cli"
	"github.com/drubhattacharya/budget-simulator/internal/config"
	"github.com/drubhattacharya/budget-simulator/internal/model"
	"github.com/drubhattacharya/budget-simulator/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	flagHistoryLimit  int
	flagHistoryFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved scenarios",
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved scenario",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "l", 20, "Maximum scenarios to show (0 for all)")
	historyCmd.Flags().StringVarP(&flagHistoryFormat, "format", "f", "table", "Output format: table, json, yaml")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, errors.New("history is disabled in config")
	}
	return store.Open(commandContext(cmd), cfg.HistoryPath())
}

func runHistory(cmd *cobra.Command, _ []string) error {
	st, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	items, err := st.ListScenarios(commandContext(cmd), flagHistoryLimit)
	if err != nil {
		return err
	}

	switch strings.ToLower(flagHistoryFormat) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "yaml", "yml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", flagHistoryFormat)
	}

	if len(items) == 0 {
		fmt.Println("\n  No saved scenarios. Run with --save or press [s] in the dashboard.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(historyTable(items)))
	fmt.Println()
	return nil
}

func historyTable(items []model.SavedScenario) cli.Table {
	t := cli.Table{
		Title:   fmt.Sprintf("Saved scenarios (%d)", len(items)),
		Headers: []string{"#", "Saved", "Name", "Minutes", "Proposed", "Baseline / yr", "Projected / yr", "Savings / yr", "Break-even"},
	}
	for _, r := range items {
		be := "n/a"
		if r.BreakEvenRate != nil {
			be = cli.FormatRate(*r.BreakEvenRate)
		}
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d", r.ID),
			r.SavedAt.Local().Format("2006-01-02 15:04"),
			r.Name,
			cli.FormatMinutes(r.BaseMinutes),
			r.ProposedMode,
			cli.FormatMoney(r.BaselineAnnual),
			cli.FormatMoney(r.ProjectedAnnual),
			cli.FormatSavings(r.SavingsAnnual),
			be,
		})
	}
	return t
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	st, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Clear(commandContext(cmd))
	if err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Deleted %d saved scenario(s)\n", n)
	}
	return nil
}
