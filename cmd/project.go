package cmd

import (
	"fmt"
	"os"

	"github.com/drubhattacharya/budget-simulator/internal/engine"
	"github.com/drubhattacharya/budget-simulator/internal/report"

	"github.com/spf13/cobra"
)

var flagFormat string

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Baseline vs projected cost, savings and break-even rates",
	RunE:  runProject,
}

func init() {
	projectCmd.Flags().StringVarP(&flagFormat, "format", "f", "table", "Output format: table, json, yaml, csv")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	cfg, s, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	p, err := engine.Project(s)
	if err != nil {
		return fmt.Errorf("projecting scenario: %w", err)
	}

	if format == report.FormatTable {
		fmt.Println()
	}
	if err := report.Write(os.Stdout, report.New(s, p), format); err != nil {
		return err
	}

	return saveIfRequested(commandContext(cmd), cfg, s, p)
}
