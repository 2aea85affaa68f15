package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/config"
	"github.com/drubhattacharya/budget-simulator/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the first-run form. Numeric
// answers stay as text until Apply so the form can bind to them directly.
type SetupValues struct {
	BaseMinutes string
	VRIPercent  string
	RateCard    string
	BlendedRate string
	Theme       string
}

// SetupValuesFrom pre-fills the form from an existing configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		BaseMinutes: formatInput(cfg.Baseline.Minutes),
		VRIPercent:  formatInput(cfg.Baseline.VRIPercent),
		RateCard:    config.NormalizeRateCardName(cfg.Baseline.RateCard),
		BlendedRate: formatInput(cfg.Proposed.BlendedRate),
		Theme:       cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the first-run form. It is shared by the dashboard and
// the setup command.
func NewSetupForm(vals *SetupValues, rateCards []string) *huh.Form {
	cardOpts := make([]huh.Option[string], 0, len(rateCards))
	for _, name := range rateCards {
		cardOpts = append(cardOpts, huh.NewOption(name, name))
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budget-simulator").
				Description("Set the baseline volume and contract.\nEverything here can be changed later in Settings."),
			huh.NewInput().
				Title("Baseline monthly minutes").
				Description("Interpreting minutes per month before growth.").
				Placeholder("20000").
				Value(&vals.BaseMinutes).
				Validate(validateNonNegative),
			huh.NewInput().
				Title("VRI share of minutes (%)").
				Description("Phone gets the remainder.").
				Placeholder("50").
				Value(&vals.VRIPercent).
				Validate(validatePercent),
			huh.NewSelect[string]().
				Title("Current rate card").
				Options(cardOpts...).
				Value(&vals.RateCard),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Proposed blended rate ($/min)").
				Placeholder("0.75").
				Value(&vals.BlendedRate).
				Validate(validateNonNegative),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}

// Apply writes the answers into cfg. The proposed split starts equal to
// the baseline split.
func (v SetupValues) Apply(cfg *config.Config) error {
	minutes, err := parseSetupNumber("baseline minutes", v.BaseMinutes)
	if err != nil {
		return err
	}
	vri, err := parseSetupNumber("VRI share", v.VRIPercent)
	if err != nil {
		return err
	}
	rate, err := parseSetupNumber("blended rate", v.BlendedRate)
	if err != nil {
		return err
	}
	if _, ok := cfg.LookupRateCard(v.RateCard); !ok {
		return fmt.Errorf("unknown rate card %q", v.RateCard)
	}

	cfg.Baseline.Minutes = minutes
	cfg.Baseline.VRIPercent = vri
	cfg.Baseline.RateCard = config.NormalizeRateCardName(v.RateCard)
	cfg.Proposed.VRIPercent = vri
	cfg.Proposed.Mode = "blended"
	cfg.Proposed.BlendedRate = rate
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	return nil
}

func parseSetupNumber(name, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return f, nil
}

func validateNonNegative(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if f < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validatePercent(s string) error {
	if err := validateNonNegative(s); err != nil {
		return err
	}
	if f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64); f > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}
