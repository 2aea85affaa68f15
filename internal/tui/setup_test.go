package tui

import (
	"testing"

	"github.com/drubhattacharya/budget-simulator/internal/config"
)

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := SetupValues{
		BaseMinutes: "15000",
		VRIPercent:  "70",
		RateCard:    "legacy_blended",
		BlendedRate: "0.7",
		Theme:       "terminal",
	}
	if err := vals.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if cfg.Baseline.Minutes != 15000 || cfg.Baseline.VRIPercent != 70 || cfg.Proposed.VRIPercent != 70 {
		t.Errorf("baseline = %+v, proposed = %+v", cfg.Baseline, cfg.Proposed)
	}
	if cfg.Baseline.RateCard != "legacy-blended" {
		t.Errorf("rate card = %q, want legacy-blended", cfg.Baseline.RateCard)
	}
	if cfg.Proposed.Mode != "blended" || cfg.Proposed.BlendedRate != 0.7 {
		t.Errorf("proposed = %+v", cfg.Proposed)
	}
	if cfg.Appearance.Theme != "terminal" {
		t.Errorf("theme = %q", cfg.Appearance.Theme)
	}
}

func TestSetupValuesApplyRejectsBadInput(t *testing.T) {
	cases := map[string]SetupValues{
		"minutes":   {BaseMinutes: "lots", VRIPercent: "50", RateCard: "standard", BlendedRate: "0.75"},
		"rate card": {BaseMinutes: "100", VRIPercent: "50", RateCard: "platinum", BlendedRate: "0.75"},
	}
	for name, vals := range cases {
		cfg := config.DefaultConfig()
		if err := vals.Apply(&cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSetupValidators(t *testing.T) {
	if validateNonNegative("-1") == nil {
		t.Error("negative should fail")
	}
	if validateNonNegative("abc") == nil {
		t.Error("non-number should fail")
	}
	if validatePercent("101") == nil {
		t.Error("percent over 100 should fail")
	}
	if err := validatePercent("42.5"); err != nil {
		t.Errorf("42.5%%: %v", err)
	}
}

func TestSetupValuesFromConfig(t *testing.T) {
	vals := SetupValuesFrom(config.DefaultConfig())
	if vals.BaseMinutes != "20000" || vals.VRIPercent != "50" || vals.BlendedRate != "0.75" {
		t.Errorf("values = %+v", vals)
	}
	form := NewSetupForm(&vals, config.DefaultConfig().RateCardNames())
	if form == nil {
		t.Fatal("nil form")
	}
}
