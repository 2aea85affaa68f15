// Package cmd implements the budget-simulator CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/config"
	"github.com/drubhattacharya/budget-simulator/internal/engine"
	"github.com/drubhattacharya/budget-simulator/internal/model"
	"github.com/drubhattacharya/budget-simulator/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	flagMinutes        float64
	flagGrowth         float64
	flagVRIPct         float64
	flagBaselineVRIPct float64
	flagRateCard       string
	flagRefVRIRate     float64
	flagRefPhoneRate   float64
	flagBlended        float64
	flagVRIRate        float64
	flagPhoneRate      float64
	flagShareBasis     string
	flagQuiet          bool
	flagSave           bool
	flagName           string
)

var rootCmd = &cobra.Command{
	Use:   "budget-simulator",
	Short: "Interpreter-service budget simulator",
	Long: "Project the annual cost of VRI and phone interpreting under renegotiated rates,\n" +
		"compare it with the current contract and find the break-even rates.",
	RunE:         runProject,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addScenarioFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "table", "Output format: table, json, yaml, csv")
}

// addScenarioFlags registers the inputs shared by every projection command.
func addScenarioFlags(pf *pflag.FlagSet) {
	pf.Float64Var(&flagMinutes, "minutes", 0, "Baseline monthly minutes (default from config)")
	pf.Float64Var(&flagGrowth, "growth", 0, "Volume growth factor, e.g. 1.2 for +20%")
	pf.Float64Var(&flagVRIPct, "vri-pct", 0, "Current VRI share of minutes in percent; phone gets the rest")
	pf.Float64Var(&flagBaselineVRIPct, "baseline-vri-pct", 0, "Baseline VRI share in percent (defaults to --vri-pct)")
	pf.StringVar(&flagRateCard, "rate-card", "", "Current contract rate card")
	pf.Float64Var(&flagRefVRIRate, "ref-vri-rate", 0, "Override the current contract VRI rate ($/min)")
	pf.Float64Var(&flagRefPhoneRate, "ref-phone-rate", 0, "Override the current contract phone rate ($/min)")
	pf.Float64Var(&flagBlended, "blended", 0, "Proposed blended rate ($/min)")
	pf.Float64Var(&flagVRIRate, "vri-rate", 0, "Proposed VRI rate ($/min); selects separate rates")
	pf.Float64Var(&flagPhoneRate, "phone-rate", 0, "Proposed phone rate ($/min); selects separate rates")
	pf.StringVar(&flagShareBasis, "share-basis", "", "Split used to apportion break-even cost: current or baseline")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output on stderr")
	pf.BoolVar(&flagSave, "save", false, "Save the projection to history")
	pf.StringVar(&flagName, "name", "", "Name recorded with --save")
}

// applyFlags layers explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()

	if f.Changed("blended") && (f.Changed("vri-rate") || f.Changed("phone-rate")) {
		return errors.New("--blended cannot be combined with --vri-rate or --phone-rate")
	}

	if f.Changed("minutes") {
		cfg.Baseline.Minutes = flagMinutes
	}
	if f.Changed("growth") {
		cfg.Baseline.GrowthFactor = flagGrowth
	}
	if f.Changed("vri-pct") {
		cfg.Proposed.VRIPercent = flagVRIPct
		cfg.Baseline.VRIPercent = flagVRIPct
	}
	if f.Changed("baseline-vri-pct") {
		cfg.Baseline.VRIPercent = flagBaselineVRIPct
	}
	if f.Changed("rate-card") {
		cfg.Baseline.RateCard = flagRateCard
	}
	if f.Changed("share-basis") {
		cfg.BreakEven.ShareBasis = flagShareBasis
	}

	switch {
	case f.Changed("blended"):
		cfg.Proposed.Mode = "blended"
		cfg.Proposed.BlendedRate = flagBlended
	case f.Changed("vri-rate") || f.Changed("phone-rate"):
		cfg.Proposed.Mode = "separate"
		if f.Changed("vri-rate") {
			cfg.Proposed.VRIRate = flagVRIRate
		}
		if f.Changed("phone-rate") {
			cfg.Proposed.PhoneRate = flagPhoneRate
		}
	}
	return nil
}

// loadScenario is the shared input path used by all projection commands:
// config file, then environment, then flags.
func loadScenario(cmd *cobra.Command) (config.Config, engine.Scenario, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, engine.Scenario{}, err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, engine.Scenario{}, err
	}

	s, err := cfg.Scenario(time.Now())
	if err != nil {
		return cfg, engine.Scenario{}, err
	}

	f := cmd.Flags()
	if f.Changed("ref-vri-rate") || f.Changed("ref-phone-rate") {
		vri, phone := engine.EffectiveRates(s.Reference)
		if f.Changed("ref-vri-rate") {
			vri = flagRefVRIRate
		}
		if f.Changed("ref-phone-rate") {
			phone = flagRefPhoneRate
		}
		s.Reference = engine.Separate{VRI: vri, Phone: phone}
	}
	return cfg, s, nil
}

// saveIfRequested records the projection when --save is set.
func saveIfRequested(ctx context.Context, cfg config.Config, s engine.Scenario, p engine.Projection) error {
	if !flagSave {
		return nil
	}
	if !cfg.History.Enabled {
		return errors.New("--save: history is disabled in config")
	}

	st, err := store.Open(ctx, cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.SaveScenario(ctx, model.NewSavedScenario(flagName, s, p, time.Now()))
	if err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Saved scenario #%d to %s\n", id, cfg.HistoryPath())
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
